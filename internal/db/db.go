// Package db owns the GORM connection used by internal/storage. It mirrors
// the teacher's single-package Init/AutoMigrate pattern, repointed at the
// interview domain's entities.
package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"interviewengine/internal/config"
	"interviewengine/internal/domain"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&domain.Candidate{},
		&domain.CVAnalysis{},
		&domain.Question{},
		&domain.FollowUpQuestion{},
		&domain.Interview{},
		&domain.Answer{},
		&domain.Evaluation{},
		&domain.ConceptGap{},
	); err != nil {
		return err
	}

	DB = db
	log.Printf("[DB] connected and migrated")
	return nil
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "session:%s"

func SetSession(rdb *redis.Client, candidateID string, token string, duration time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, candidateID)
	return rdb.Set(ctx, key, token, duration).Err()
}

func GetSession(rdb *redis.Client, candidateID string) (string, error) {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, candidateID)
	return rdb.Get(ctx, key).Result()
}

func DeleteSession(rdb *redis.Client, candidateID string) error {
	ctx := context.Background()
	key := fmt.Sprintf(sessionKeyFmt, candidateID)
	return rdb.Del(ctx, key).Err()
}

// OnlineCandidateCount returns the number of unique candidates with an
// active session, scanning the session key space the way the teacher's
// OnlineUserCount does.
func OnlineCandidateCount(rdb *redis.Client) (int, error) {
	ctx := context.Background()
	var cursor uint64
	ids := make(map[string]struct{})
	for {
		keys, newCursor, err := rdb.Scan(ctx, cursor, "session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			parts := strings.SplitN(key, ":", 2)
			if len(parts) == 2 && parts[0] == "session" && parts[1] != "" {
				ids[parts[1]] = struct{}{}
			}
		}
		if newCursor == 0 {
			break
		}
		cursor = newCursor
	}
	return len(ids), nil
}

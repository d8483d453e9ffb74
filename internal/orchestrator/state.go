package orchestrator

import "interviewengine/internal/domain"

// validTransitions is the explicit transition table for the interview
// state machine: constant-time lookup, no method polymorphism on state
// objects. Mirrors spec §4.4's table exactly.
var validTransitions = map[domain.InterviewStatus]map[domain.InterviewStatus]bool{
	domain.StatusPlanning: {
		domain.StatusIdle: true,
	},
	domain.StatusIdle: {
		domain.StatusQuestioning: true,
		domain.StatusCancelled:   true,
	},
	domain.StatusQuestioning: {
		domain.StatusEvaluating: true,
		domain.StatusCancelled:  true,
	},
	domain.StatusEvaluating: {
		domain.StatusFollowUp:   true,
		domain.StatusQuestioning: true,
		domain.StatusComplete:   true,
		domain.StatusCancelled:  true,
	},
	domain.StatusFollowUp: {
		domain.StatusEvaluating: true,
		domain.StatusCancelled:  true,
	},
	domain.StatusComplete:   {},
	domain.StatusCancelled:  {},
}

// CanTransition reports whether from->to is a permitted transition.
func CanTransition(from, to domain.InterviewStatus) bool {
	return validTransitions[from][to]
}

package orchestrator

import "eduvane/internal/types"

// SessionState is the per-conversation state machine backing the
// identity/role negotiation. It is owned exclusively by one Orchestrator
// and mutated only by the single active turn, so it needs no locking.
type SessionState struct {
	// HasIntroducedSelf is set once the assistant has greeted the user.
	// Later purely conversational turns get continuity phrasing instead
	// of a fresh introduction.
	HasIntroducedSelf bool

	// RoleConfirmed is set when the user's role has been established,
	// either from the persisted profile or from conversation.
	RoleConfirmed bool
	UserRole      types.UserRole
	UserName      string

	// RoleAsked means the role question is currently open. It is asked
	// at most once; an unanswered question falls back to continuity
	// phrasing rather than re-asking.
	RoleAsked bool

	// Initialized is set after profile hydration has run. Hydration
	// happens at most once per session, on the first turn.
	Initialized bool
}

// firstName returns the leading word of the session user name, or ""
// when no name is known.
func (s *SessionState) firstName() string {
	for i := 0; i < len(s.UserName); i++ {
		if s.UserName[i] == ' ' {
			return s.UserName[:i]
		}
	}
	return s.UserName
}

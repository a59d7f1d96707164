package domain

// UserSession holds the per-user conversation state. Created lazily on the
// first event from a user and kept for the process lifetime. The router is
// the single owner: all reads and writes happen on that user's event
// goroutine, so no locking is needed here.
type UserSession struct {
	UserID UserID
	Mode   Mode

	// Present only while a delete flow is pending.
	PendingDelete *DeleteCandidateSet

	// Present only while a game is running.
	ActiveGame *GameState
}

// NewUserSession returns a session in the default mode.
func NewUserSession(userID UserID) *UserSession {
	return &UserSession{
		UserID: userID,
		Mode:   ModeNormal,
	}
}

// GameState tracks one "get to know you" session. Owned exclusively by the
// UserSession that created it.
type GameState struct {
	CurrentQuestion string
	QuestionCount   int
	AskedQuestions  []string // append-only within a session
}

// DeleteCandidate references one thought eligible for deletion. It keeps the
// opaque store id, never a copy of mutable fields, so deletion targets the
// persisted record even when the preview was truncated.
type DeleteCandidate struct {
	ThoughtID  ThoughtID
	Preview    string
	Categories []Category
}

// DeleteCandidateSet is the transient numbered list built when a delete flow
// starts. Display indices are 1-based and stable only within one instance:
// issuing /delete again builds a fresh set with a new instance ID, which
// invalidates every previously issued button.
type DeleteCandidateSet struct {
	InstanceID string
	Candidates []DeleteCandidate
}

// Lookup resolves a 1-based display index. ok is false when the index is out
// of range.
func (s *DeleteCandidateSet) Lookup(index int) (DeleteCandidate, bool) {
	if s == nil || index < 1 || index > len(s.Candidates) {
		return DeleteCandidate{}, false
	}
	return s.Candidates[index-1], true
}

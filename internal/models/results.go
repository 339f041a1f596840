package models

// Results is the payload polled by participants and the admin dashboard.
type Results struct {
	AggregateResult
	Comments []Comment         `json:"comments"`
	History  []AggregateResult `json:"history"`
	Revision uint64            `json:"revision"`
}

type VoteReceipt struct {
	OK        bool   `json:"ok"`
	SessionID int    `json:"sessionId"`
	CommentID *int64 `json:"commentId,omitempty"`
}

type VoterStatus struct {
	VoterID   string  `json:"voterId"`
	SessionID int     `json:"sessionId"`
	HasVoted  bool    `json:"hasVoted"`
	Choice    *Choice `json:"choice"`
}

type ClearResult struct {
	SessionID   int    `json:"sessionId"`
	ArchivePath string `json:"archive,omitempty"`
}

// ArchiveState is the full audit view of the poll, including votes from
// closed sessions.
type ArchiveState struct {
	ExportedAtMs int64             `json:"exportedAtMs"`
	Current      SessionRecord     `json:"current"`
	Sessions     []SessionRecord   `json:"sessions"`
	Theme        string            `json:"theme"`
	Expected     int               `json:"expected"`
	Votes        []Vote            `json:"votes"`
	Comments     []Comment         `json:"comments"`
	History      []AggregateResult `json:"history"`
}

type SessionRecord struct {
	ID        int   `json:"sessionId"`
	ResetAtMs int64 `json:"resetAtMs"`
}

func CloneHistory(h []AggregateResult) []AggregateResult {
	out := make([]AggregateResult, len(h))
	for i, a := range h {
		out[i] = a.clone()
	}
	return out
}

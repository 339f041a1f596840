package models

type Vote struct {
	VoterID   string `json:"voterId"`
	SessionID int    `json:"sessionId"`
	Choice    Choice `json:"choice"`
}

type Counts struct {
	Interested    int `json:"interested"`
	Neutral       int `json:"neutral"`
	NotInterested int `json:"notInterested"`
	Total         int `json:"total"`
}

type voteKey struct {
	voter   string
	session int
}

// VoteLedger holds at most one vote per (voter, session). Rows from closed
// sessions are kept for audit and ignored by live counts.
// VoteLedger is not safe for concurrent use.
type VoteLedger struct {
	index map[voteKey]int
	rows  []Vote
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{
		index: make(map[voteKey]int),
	}
}

// Submit records the vote unless the voter already has one in the session,
// in which case the stored choice is left as is.
func (l *VoteLedger) Submit(voterID string, sessionID int, choice Choice) error {
	if !choice.Valid() {
		return ErrInvalidChoice
	}
	key := voteKey{voter: voterID, session: sessionID}
	if _, ok := l.index[key]; ok {
		return ErrDuplicateVote
	}
	l.index[key] = len(l.rows)
	l.rows = append(l.rows, Vote{VoterID: voterID, SessionID: sessionID, Choice: choice})
	return nil
}

func (l *VoteLedger) HasVoted(voterID string, sessionID int) bool {
	_, ok := l.index[voteKey{voter: voterID, session: sessionID}]
	return ok
}

func (l *VoteLedger) ChoiceOf(voterID string, sessionID int) (Choice, bool) {
	i, ok := l.index[voteKey{voter: voterID, session: sessionID}]
	if !ok {
		return "", false
	}
	return l.rows[i].Choice, true
}

// CountsForSession scans the ledger. Total counts polarized votes only;
// neutral votes are reported but excluded.
func (l *VoteLedger) CountsForSession(sessionID int) Counts {
	var c Counts
	for _, v := range l.rows {
		if v.SessionID != sessionID {
			continue
		}
		switch v.Choice {
		case ChoiceInterested:
			c.Interested++
		case ChoiceNeutral:
			c.Neutral++
		case ChoiceNotInterested:
			c.NotInterested++
		}
	}
	c.Total = c.Interested + c.NotInterested
	return c
}

func (l *VoteLedger) VotersInSession(sessionID int) int {
	n := 0
	for _, v := range l.rows {
		if v.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (l *VoteLedger) Votes() []Vote {
	out := make([]Vote, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *VoteLedger) Len() int {
	return len(l.rows)
}

func (l *VoteLedger) Clear() {
	l.index = make(map[voteKey]int)
	l.rows = nil
}

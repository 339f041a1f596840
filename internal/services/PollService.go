package services

import (
	"fmt"
	"livepoll/internal/models"
	"livepoll/internal/structures"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const maxThemeLength = 200

type PollServiceInterface interface {
	Vote(voterID string, choice *models.Choice, comment string) (models.VoteReceipt, error)
	Results() *models.Results
	Revision() uint64
	Reset() (models.AggregateResult, int)
	ClearAll(archive func(*models.ArchiveState) (string, error)) (models.ClearResult, error)
	SetExpected(count int) error
	SetTheme(text string) (string, error)
	VoterStatus(voterID string) models.VoterStatus
	Export() *models.ArchiveState
	Stats() Stats
}

// Stats is a cheap summary for health checks and gauges.
type Stats struct {
	SessionID int
	Voters    int
	Comments  int
	Resets    int
}

// PollService owns every piece of mutable poll state. A single lock covers
// the session, ledger, comment log and history so that a reset can never
// interleave with a vote.
type PollService struct {
	mu       sync.RWMutex
	now      func() time.Time
	sessions *models.SessionStore
	ledger   *models.VoteLedger
	comments *models.CommentLog
	history  []models.AggregateResult
	theme    string
	expected int
	revision uint64
}

func NewPollService(conf *structures.Config) PollServiceInterface {
	return newPollService(conf, time.Now)
}

func newPollService(conf *structures.Config, now func() time.Time) *PollService {
	expected := conf.Poll.ExpectedParticipants
	if expected < 0 {
		expected = 0
	}
	return &PollService{
		now:      now,
		sessions: models.NewSessionStore(now()),
		ledger:   models.NewVoteLedger(),
		comments: models.NewCommentLog(conf.Poll.MaxCommentLength),
		theme:    strings.TrimSpace(conf.Poll.Theme),
		expected: expected,
	}
}

// Vote records a choice, a comment, or both. The comment is validated before
// the ledger is touched so a request is either applied in full or not at all.
func (ps *PollService) Vote(voterID string, choice *models.Choice, comment string) (models.VoteReceipt, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	session := ps.sessions.Current()
	hasComment := strings.TrimSpace(comment) != ""
	if choice == nil && !hasComment {
		return models.VoteReceipt{}, models.ErrEmptySubmission
	}
	if choice != nil && !choice.Valid() {
		return models.VoteReceipt{}, models.ErrInvalidChoice
	}
	if hasComment {
		if _, err := ps.comments.Validate(comment); err != nil {
			return models.VoteReceipt{}, err
		}
	}

	if choice != nil {
		if err := ps.ledger.Submit(voterID, session.ID, *choice); err != nil {
			return models.VoteReceipt{}, err
		}
	}

	receipt := models.VoteReceipt{OK: true, SessionID: session.ID}
	if hasComment {
		c, err := ps.comments.Append(comment, choice, ps.now())
		if err != nil {
			return models.VoteReceipt{}, fmt.Errorf("append comment: %w", err)
		}
		receipt.CommentID = &c.ID
	}
	ps.revision++
	return receipt, nil
}

func (ps *PollService) snapshotLocked() models.AggregateResult {
	session := ps.sessions.Current()
	return models.Aggregate(session.ID, ps.ledger.CountsForSession(session.ID), ps.expected, ps.theme, ps.now())
}

func (ps *PollService) Results() *models.Results {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return &models.Results{
		AggregateResult: ps.snapshotLocked(),
		Comments:        ps.comments.ListAll(),
		History:         models.CloneHistory(ps.history),
		Revision:        ps.revision,
	}
}

func (ps *PollService) Revision() uint64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.revision
}

// Reset appends the pre-reset snapshot to history and opens the next
// session. It returns that snapshot and the new session id.
func (ps *PollService) Reset() (models.AggregateResult, int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	snap := ps.snapshotLocked()
	ps.history = append(ps.history, snap)
	next := ps.sessions.Advance(ps.now())
	ps.revision++
	return snap, next.ID
}

// ClearAll wipes votes and comments and opens a new session. History, theme
// and the expected count survive. When archive is non-nil the full state is
// handed to it first; an archive failure aborts the wipe.
func (ps *PollService) ClearAll(archive func(*models.ArchiveState) (string, error)) (models.ClearResult, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	var res models.ClearResult
	if archive != nil {
		path, err := archive(ps.exportLocked())
		if err != nil {
			return res, fmt.Errorf("archive before clear: %w", err)
		}
		res.ArchivePath = path
	}

	ps.ledger.Clear()
	ps.comments.Clear()
	res.SessionID = ps.sessions.Advance(ps.now()).ID
	ps.revision++
	return res, nil
}

func (ps *PollService) SetExpected(count int) error {
	if count < 0 {
		return models.ErrInvalidExpected
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.expected = count
	ps.revision++
	return nil
}

func (ps *PollService) SetTheme(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxThemeLength {
		return "", models.ErrThemeTooLong
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.theme = text
	ps.revision++
	return text, nil
}

func (ps *PollService) VoterStatus(voterID string) models.VoterStatus {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	session := ps.sessions.Current()
	status := models.VoterStatus{VoterID: voterID, SessionID: session.ID}
	if c, ok := ps.ledger.ChoiceOf(voterID, session.ID); ok {
		status.HasVoted = true
		status.Choice = &c
	}
	return status
}

func (ps *PollService) Export() *models.ArchiveState {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.exportLocked()
}

func (ps *PollService) exportLocked() *models.ArchiveState {
	current := ps.sessions.Current()
	past := ps.sessions.Past()
	sessions := make([]models.SessionRecord, 0, len(past)+1)
	for _, s := range past {
		sessions = append(sessions, models.SessionRecord{ID: s.ID, ResetAtMs: s.ResetAtMs()})
	}
	cur := models.SessionRecord{ID: current.ID, ResetAtMs: current.ResetAtMs()}
	sessions = append(sessions, cur)

	return &models.ArchiveState{
		ExportedAtMs: ps.now().UnixMilli(),
		Current:      cur,
		Sessions:     sessions,
		Theme:        ps.theme,
		Expected:     ps.expected,
		Votes:        ps.ledger.Votes(),
		Comments:     ps.comments.ListAll(),
		History:      models.CloneHistory(ps.history),
	}
}

func (ps *PollService) Stats() Stats {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	session := ps.sessions.Current()
	return Stats{
		SessionID: session.ID,
		Voters:    ps.ledger.VotersInSession(session.ID),
		Comments:  ps.comments.Len(),
		Resets:    len(ps.history),
	}
}

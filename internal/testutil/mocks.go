package testutil

import (
	"livepoll/internal/models"
	"livepoll/internal/providers"
	"livepoll/internal/services"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockPollService implements services.PollServiceInterface with canned
// answers. Zero value is usable.
type MockPollService struct {
	mu           sync.Mutex
	VoteCalls    []VoteCall
	VoteErr      error
	ResultsData  *models.Results
	RevisionNum  uint64
	ResetCalls   int
	ResetSnap    models.AggregateResult
	ClearCalls   int
	ClearErr     error
	ExpectedSet  []int
	ExpectedErr  error
	ThemeSet     []string
	ThemeErr     error
	Status       models.VoterStatus
	ExportState  *models.ArchiveState
	StatsData    services.Stats
	SessionAfter int
}

type VoteCall struct {
	VoterID string
	Choice  *models.Choice
	Comment string
}

func (m *MockPollService) Vote(voterID string, choice *models.Choice, comment string) (models.VoteReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VoteCalls = append(m.VoteCalls, VoteCall{VoterID: voterID, Choice: choice, Comment: comment})
	if m.VoteErr != nil {
		return models.VoteReceipt{}, m.VoteErr
	}
	return models.VoteReceipt{OK: true, SessionID: 1}, nil
}

func (m *MockPollService) Results() *models.Results {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResultsData == nil {
		return &models.Results{AggregateResult: models.AggregateResult{SessionID: 1}}
	}
	return m.ResultsData
}

func (m *MockPollService) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RevisionNum
}

func (m *MockPollService) Reset() (models.AggregateResult, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	return m.ResetSnap, m.SessionAfter
}

func (m *MockPollService) ClearAll(archive func(*models.ArchiveState) (string, error)) (models.ClearResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearErr != nil {
		return models.ClearResult{}, m.ClearErr
	}
	res := models.ClearResult{SessionID: m.SessionAfter}
	if archive != nil {
		state := m.ExportState
		if state == nil {
			state = &models.ArchiveState{}
		}
		path, err := archive(state)
		if err != nil {
			return models.ClearResult{}, err
		}
		res.ArchivePath = path
	}
	return res, nil
}

func (m *MockPollService) SetExpected(count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExpectedErr != nil {
		return m.ExpectedErr
	}
	m.ExpectedSet = append(m.ExpectedSet, count)
	return nil
}

func (m *MockPollService) SetTheme(text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ThemeErr != nil {
		return "", m.ThemeErr
	}
	m.ThemeSet = append(m.ThemeSet, text)
	return text, nil
}

func (m *MockPollService) VoterStatus(voterID string) models.VoterStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.Status
	s.VoterID = voterID
	return s
}

func (m *MockPollService) Export() *models.ArchiveState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExportState == nil {
		return &models.ArchiveState{}
	}
	return m.ExportState
}

func (m *MockPollService) Stats() services.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StatsData
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// domain events.
type MockMetrics struct {
	mu          sync.Mutex
	Votes       map[string]int
	Rejections  map[string]int
	Comments    int
	Resets      map[string]int
	ArchiveRuns int
}

func (m *MockMetrics) bump(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) IncVotes(choice string)                           { m.bump(&m.Votes, choice) }
func (m *MockMetrics) IncRejections(reason string)                      { m.bump(&m.Rejections, reason) }
func (m *MockMetrics) IncResets(kind string)                            { m.bump(&m.Resets, kind) }
func (m *MockMetrics) IncComments() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Comments++
}
func (m *MockMetrics) ObserveArchiveDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArchiveRuns++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockArchiver implements interfaces.ArchiverInterface.
type MockArchiver struct {
	mu      sync.Mutex
	Saved   []*models.ArchiveState
	SaveErr error
	Payload []byte
}

func (m *MockArchiver) Encode(_ *models.ArchiveState) ([]byte, error) {
	if m.Payload == nil {
		return []byte("archive"), nil
	}
	return m.Payload, nil
}

func (m *MockArchiver) SaveToDir(dir string, state *models.ArchiveState) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.Saved = append(m.Saved, state)
	return dir + "/archive.json.zst", nil
}

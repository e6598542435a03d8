package testutil

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/providers"
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

// FixedClock implements providers.Clock with a settable moment.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockKVStore implements store.KVStore with injectable Set failure,
// standing in for a substrate hitting its capacity ceiling.
type MockKVStore struct {
	mu      sync.Mutex
	Data    map[string]string
	SetErr  error
	Sets    int
	Removes int
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string]string)}
}

func (m *MockKVStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockKVStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

func (m *MockKVStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removes++
	delete(m.Data, key)
}

// MockGenerator implements gemini.GeneratorInterface with scripted
// responses and call counting.
type MockGenerator struct {
	mu         sync.Mutex
	Key        bool
	JSONResult []byte
	JSONErr    error
	ImageFn    func(prompt string) (string, error)
	TextCalls  int
	ImageCalls int
	Prompts    []string
}

func (m *MockGenerator) Configured() bool { return m.Key }

func (m *MockGenerator) GenerateJSON(_ context.Context, prompt string, _ json.RawMessage) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TextCalls++
	m.Prompts = append(m.Prompts, prompt)
	return m.JSONResult, m.JSONErr
}

func (m *MockGenerator) GenerateImage(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.ImageCalls++
	m.Prompts = append(m.Prompts, prompt)
	fn := m.ImageFn
	m.mu.Unlock()
	if fn != nil {
		return fn(prompt)
	}
	return "", nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// what it is told.
type MockMetrics struct {
	mu              sync.Mutex
	DayHits         int
	DayMisses       int
	Hits            int
	Misses          int
	GenerationCalls map[string]int
	FetchStates     []int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{GenerationCalls: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Misses++
}

func (m *MockMetrics) IncDayCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DayHits++
}

func (m *MockMetrics) IncDayCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DayMisses++
}

func (m *MockMetrics) IncGenerationCalls(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationCalls[kind+":"+outcome]++
}

func (m *MockMetrics) ObserveGenerationDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) SetFetchState(state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchStates = append(m.FetchStates, state)
}

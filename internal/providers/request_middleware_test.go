package providers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	cacheTestLogger
	mu     sync.Mutex
	errors []string
	debugs []TypeEnum
}

func (l *recordingLogger) Errorf(_ TypeEnum, format string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, format)
}

func (l *recordingLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, t)
}

func TestRequestMiddleware_AssignsRequestID(t *testing.T) {
	logger := &recordingLogger{}
	h := RequestMiddleware(logger, dummyHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/vote", nil))

	_, err := uuid.Parse(rr.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.Equal(t, []TypeEnum{TypePost}, logger.debugs)
}

func TestRequestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	h := RequestMiddleware(&recordingLogger{}, dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-1", rr.Header().Get(RequestIDHeader))
}

func TestRequestMiddleware_RecoversPanic(t *testing.T) {
	logger := &recordingLogger{}
	h := RequestMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"InternalError","message":"internal error"}`, rr.Body.String())
	assert.Len(t, logger.errors, 1)
}

func TestRequestMiddleware_PanicAfterWriteKeepsResponse(t *testing.T) {
	logger := &recordingLogger{}
	h := RequestMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
		panic("late boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"ok":true}`, rr.Body.String())
	assert.Len(t, logger.errors, 1)
}

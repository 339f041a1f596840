package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func tagMiddleware(tag string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", tag)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/api/results", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/api/results", routes[0].Url)
}

func TestRouterProvider_PostAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/api/vote", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/api/vote", routes[0].Url)
}

func TestRouterProvider_WithSharesRouteTable(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.With(tagMiddleware("x")).Post("/b", dummyHandler())
	rp.Get("/c", dummyHandler())

	routes := rp.GetRoutes()
	assert.Len(t, routes, 3)
}

func TestRouterProvider_WithAppliesMiddlewareInOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.With(tagMiddleware("outer")).With(tagMiddleware("inner")).Get("/a", dummyHandler())
	rp.Get("/plain", dummyHandler())

	routes := rp.GetRoutes()
	rr := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, []string{"outer", "inner"}, rr.Header().Values("X-Trace"))

	rr = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Empty(t, rr.Header().Values("X-Trace"))
}

func TestRouterProvider_MethodCheckedBeforeMiddleware(t *testing.T) {
	rp := NewRouterProvider()
	rp.With(tagMiddleware("mw")).Post("/b", dummyHandler())

	rr := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/b", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Empty(t, rr.Header().Values("X-Trace"))
}

func TestMethodHandler_CorrectMethod(t *testing.T) {
	handler := methodHandler(http.MethodGet, dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestMethodHandler_WrongMethod(t *testing.T) {
	handler := methodHandler(http.MethodGet, dummyHandler())

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"MethodNotAllowed","message":"method not allowed"}`, rr.Body.String())
}

func TestWriteJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONError(rr, http.StatusConflict, "DuplicateVote", "voter already voted in this session")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"DuplicateVote","message":"voter already voted in this session"}`, rr.Body.String())
}

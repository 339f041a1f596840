package internal

import (
	"encoding/json"
	"fmt"
	"livepoll/internal/archive"
	"livepoll/internal/controllers"
	"livepoll/internal/providers"
	"livepoll/internal/services"
	"livepoll/internal/structures"
	"livepoll/internal/testutil"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	routeTestKey      = "class-key"
	routeTestPassword = "lecturer-pass"
)

type routeFixture struct {
	handler http.Handler
	router  providers.RouterProviderInterface
	conf    *structures.Config
}

func newRouteFixture(t *testing.T, configure ...func(*structures.Config)) *routeFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(routeTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	conf := &structures.Config{
		AppName: "LivePoll",
		Access: structures.AccessConfig{
			Key:               routeTestKey,
			AdminPasswordHash: string(hash),
			TokenSecret:       "route-test-secret-0123",
			TokenTTL:          time.Hour,
		},
		Poll:    structures.PollConfig{Theme: "Graphs", ExpectedParticipants: 20, MaxCommentLength: 100},
		Archive: structures.ArchiveConfig{Enabled: true, Dir: t.TempDir()},
	}
	for _, fn := range configure {
		fn(conf)
	}

	logger := &testutil.MockLogger{}
	service := services.NewPollService(conf)
	metrics := providers.NewMetricsProvider(conf, service)
	cache := providers.NewInstrumentedCacheProvider(conf, logger, metrics)
	identity := providers.NewIdentityProvider(conf)
	gate := providers.NewAccessGate(conf, logger)
	compressor, err := archive.NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	archiver := archive.NewFileManager(compressor, logger, metrics)

	api := controllers.NewApiController(logger, service, cache, identity, metrics)
	admin := controllers.NewAdminController(logger, service, gate, archiver, metrics, conf)
	router := InitRoutes(api, admin, gate)

	return &routeFixture{
		handler: NewHandler(controllers.NewHealthController(service), conf, logger, router, metrics),
		router:  router,
		conf:    conf,
	}
}

func (f *routeFixture) do(method, url, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f *routeFixture) login(t *testing.T) string {
	t.Helper()
	rr := f.do(http.MethodPost, "/api/admin/login", `{"password":"`+routeTestPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	f := newRouteFixture(t)

	urls := make([]string, 0)
	for _, r := range f.router.GetRoutes() {
		urls = append(urls, r.Url)
	}

	assert.ElementsMatch(t, []string{
		"/api/results",
		"/api/vote",
		"/api/voter",
		"/api/admin/login",
		"/api/admin/reset",
		"/api/admin/clear",
		"/api/admin/max-participants",
		"/api/admin/theme",
		"/api/admin/export",
	}, urls)
}

func TestRoutes_MethodEnforcement(t *testing.T) {
	f := newRouteFixture(t)

	rr := f.do(http.MethodPost, "/api/results?key="+routeTestKey, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))

	rr = f.do(http.MethodGet, "/api/vote?key="+routeTestKey, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoutes_AccessKeyRequired(t *testing.T) {
	f := newRouteFixture(t)

	for _, url := range []string{"/api/results", "/api/results?key=wrong", "/api/voter"} {
		rr := f.do(http.MethodGet, url, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, url)
		assert.Equal(t, "Unauthorized", decode(t, rr)["error"])
	}

	rr := f.do(http.MethodGet, "/api/results", "", map[string]string{providers.AccessKeyHeader: routeTestKey})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_AdminRequiresToken(t *testing.T) {
	f := newRouteFixture(t)

	rr := f.do(http.MethodPost, "/api/admin/reset", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/api/admin/reset?key="+routeTestKey, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/api/admin/reset", "", map[string]string{"Authorization": "Bearer nonsense"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/api/admin/login", `{"password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoutes_VoteResetFlow(t *testing.T) {
	f := newRouteFixture(t)
	voter := map[string]string{providers.VoterTokenHeader: "browser-1"}
	vote := "/api/vote?key=" + routeTestKey

	rr := f.do(http.MethodPost, vote, `{"choice":"interested","comment":"great!"}`, voter)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "browser-1", rr.Header().Get(providers.VoterTokenHeader))

	rr = f.do(http.MethodPost, vote, `{"choice":"not-interested"}`, voter)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "DuplicateVote", decode(t, rr)["error"])

	rr = f.do(http.MethodPost, vote, `{"choice":null,"comment":"still here"}`, voter)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(http.MethodPost, vote, `{}`, voter)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "EmptySubmission", decode(t, rr)["error"])

	results := decode(t, f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", nil))
	assert.Equal(t, float64(1), results["understood"])
	assert.Equal(t, float64(0), results["notUnderstood"])
	assert.Equal(t, 5.0, results["rate"])
	assert.Len(t, results["comments"], 2)

	token := f.login(t)
	auth := map[string]string{"Authorization": "Bearer " + token}
	rr = f.do(http.MethodPost, "/api/admin/reset", "", auth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), decode(t, rr)["sessionId"])

	rr = f.do(http.MethodPost, vote, `{"choice":"not-interested"}`, voter)
	assert.Equal(t, http.StatusOK, rr.Code)

	results = decode(t, f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", nil))
	assert.Equal(t, float64(2), results["sessionId"])
	assert.Equal(t, float64(1), results["notUnderstood"])
	assert.Equal(t, 0.0, results["rate"])
	history := results["history"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, float64(1), history[0].(map[string]interface{})["understood"])
}

func TestRoutes_AdminSettings(t *testing.T) {
	f := newRouteFixture(t)
	auth := map[string]string{"Authorization": "Bearer " + f.login(t)}

	rr := f.do(http.MethodPost, "/api/admin/max-participants", `{"count":0}`, auth)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(http.MethodPost, "/api/admin/max-participants", `{"count":-2}`, auth)
	assert.Equal(t, "InvalidExpected", decode(t, rr)["error"])
	rr = f.do(http.MethodPost, "/api/admin/theme", `{"text":"  Recursion "}`, auth)
	require.Equal(t, http.StatusOK, rr.Code)

	results := decode(t, f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", nil))
	assert.Equal(t, "Recursion", results["theme"])
	assert.Nil(t, results["rate"])
	assert.Equal(t, false, results["renderable"])
}

func TestRoutes_ClearWritesArchive(t *testing.T) {
	f := newRouteFixture(t)
	auth := map[string]string{"Authorization": "Bearer " + f.login(t)}
	f.do(http.MethodPost, "/api/vote?key="+routeTestKey, `{"choice":"neutral","comment":"hm"}`, nil)

	rr := f.do(http.MethodPost, "/api/admin/clear", "", auth)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	path, _ := body["archive"].(string)
	require.NotEmpty(t, path)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	results := decode(t, f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", nil))
	assert.Empty(t, results["comments"])
	assert.Equal(t, float64(0), results["neutral"])
}

func TestRoutes_Export(t *testing.T) {
	f := newRouteFixture(t)
	auth := map[string]string{"Authorization": "Bearer " + f.login(t)}

	rr := f.do(http.MethodGet, "/api/admin/export", "", auth)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/zstd", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Body.Bytes())
}

func TestRoutes_GzipWhenAccepted(t *testing.T) {
	f := newRouteFixture(t)
	for i := 0; i < 40; i++ {
		f.do(http.MethodPost, "/api/vote?key="+routeTestKey, `{"comment":"a fairly long comment to push the payload over the gzip threshold"}`, nil)
	}

	rr := f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", map[string]string{"Accept-Encoding": "gzip"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestRoutes_HealthAndUnknown(t *testing.T) {
	f := newRouteFixture(t)

	rr := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(providers.RequestIDHeader))

	rr = f.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NotFound", decode(t, rr)["error"])
}

func TestRoutes_MetricsLabelsBoundedByRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	f := newRouteFixture(t, func(c *structures.Config) { c.Metrics.Enabled = true })

	for i := 0; i < 500; i++ {
		rr := f.do(http.MethodGet, fmt.Sprintf("/junk/%d", i), "", nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	n, err := promtest.GatherAndCount(reg, "livepoll_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = promtest.GatherAndCount(reg, "livepoll_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.do(http.MethodGet, "/api/results?key="+routeTestKey, "", nil)
	f.do(http.MethodGet, "/api/results?key="+routeTestKey+"&x=1", "", nil)
	n, err = promtest.GatherAndCount(reg, "livepoll_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

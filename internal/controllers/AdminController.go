package controllers

import (
	"github.com/gookit/validate"
	"livepoll/internal/archive"
	"livepoll/internal/archive/interfaces"
	"livepoll/internal/models"
	"livepoll/internal/providers"
	"livepoll/internal/services"
	"livepoll/internal/structures"
	"net/http"
	"strconv"
	"time"
)

type AdminController struct {
	logger   providers.Logger
	service  services.PollServiceInterface
	gate     providers.AccessGateInterface
	archiver interfaces.ArchiverInterface
	metrics  providers.MetricsProviderInterface
	conf     *structures.Config
}

func NewAdminController(logger providers.Logger, service services.PollServiceInterface, gate providers.AccessGateInterface, archiver interfaces.ArchiverInterface, metrics providers.MetricsProviderInterface, conf *structures.Config) *AdminController {
	return &AdminController{
		logger:   logger,
		service:  service,
		gate:     gate,
		archiver: archiver,
		metrics:  metrics,
		conf:     conf,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type maxParticipantsRequest struct {
	Count *int `json:"count"`
}

// Negative counts are left to the service, which reports ErrInvalidExpected.
type countRule struct {
	Count int `validate:"max:100000"`
}

type themeRequest struct {
	Text string `json:"text"`
}

type resetResponse struct {
	SessionID int                    `json:"sessionId"`
	Snapshot  models.AggregateResult `json:"snapshot"`
}

func validationMessage(v *validate.Validation) string {
	return v.Errors.One()
}

func (ac *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	// a missing password is a failed login, not a malformed request
	token, exp, err := ac.gate.Login(req.Password)
	if err != nil {
		ac.logger.Warnf(providers.TypeAdmin, "failed admin login from %s", r.RemoteAddr)
		writeError(w, ac.logger, providers.TypeAdmin, err)
		return
	}
	ac.logger.Infof(providers.TypeAdmin, "admin login from %s", r.RemoteAddr)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp.UnixMilli()})
}

// Reset closes the running session, keeping its snapshot in history.
func (ac *AdminController) Reset(w http.ResponseWriter, r *http.Request) {
	snap, session := ac.service.Reset()
	ac.metrics.IncResets("session")
	ac.logger.Infof(providers.TypeAdmin, "session %d closed with %d/%d votes, session %d open", snap.SessionID, snap.UnderstoodCount, snap.NotUnderstoodCount, session)
	writeJSON(w, http.StatusOK, resetResponse{SessionID: session, Snapshot: snap})
}

// Clear wipes votes and comments. History survives. With archiving on, the
// wiped state is written to disk first and a failed write aborts the wipe.
func (ac *AdminController) Clear(w http.ResponseWriter, r *http.Request) {
	var archiveFn func(*models.ArchiveState) (string, error)
	if ac.conf.Archive.Enabled {
		archiveFn = func(state *models.ArchiveState) (string, error) {
			return ac.archiver.SaveToDir(ac.conf.Archive.Dir, state)
		}
	}

	res, err := ac.service.ClearAll(archiveFn)
	if err != nil {
		writeError(w, ac.logger, providers.TypeAdmin, err)
		return
	}
	ac.metrics.IncResets("clear")
	ac.logger.Infof(providers.TypeAdmin, "all votes and comments cleared, session %d open", res.SessionID)
	writeJSON(w, http.StatusOK, res)
}

func (ac *AdminController) SetMaxParticipants(w http.ResponseWriter, r *http.Request) {
	var req maxParticipantsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Count == nil {
		writeBadRequest(w, "count is required")
		return
	}
	if v := validate.Struct(&countRule{Count: *req.Count}); !v.Validate() {
		writeBadRequest(w, validationMessage(v))
		return
	}

	if err := ac.service.SetExpected(*req.Count); err != nil {
		writeError(w, ac.logger, providers.TypeAdmin, err)
		return
	}
	ac.logger.Infof(providers.TypeAdmin, "expected participants set to %d", *req.Count)
	writeJSON(w, http.StatusOK, map[string]int{"expected": *req.Count})
}

func (ac *AdminController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	theme, err := ac.service.SetTheme(req.Text)
	if err != nil {
		writeError(w, ac.logger, providers.TypeAdmin, err)
		return
	}
	ac.logger.Infof(providers.TypeAdmin, "theme set to %q", theme)
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

// Export streams the full audit state, votes of closed sessions included.
func (ac *AdminController) Export(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	state := ac.service.Export()
	data, err := ac.archiver.Encode(state)
	if err != nil {
		writeError(w, ac.logger, providers.TypeAdmin, err)
		return
	}
	ac.metrics.ObserveArchiveDuration(time.Since(start))

	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", `attachment; filename="`+archive.FileName(state)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

package controllers

import (
	json "github.com/goccy/go-json"
	"livepoll/internal/models"
	"livepoll/internal/providers"
	"livepoll/internal/services"
	"net/http"
	"strconv"
	"strings"
)

type ApiController struct {
	logger   providers.Logger
	service  services.PollServiceInterface
	cache    providers.CacheProviderInterface
	identity providers.IdentityProviderInterface
	metrics  providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, service services.PollServiceInterface, cache providers.CacheProviderInterface, identity providers.IdentityProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		service:  service,
		cache:    cache,
		identity: identity,
		metrics:  metrics,
	}
}

type voteRequest struct {
	Choice  *string `json:"choice"`
	Comment string  `json:"comment"`
}

func resultsCacheKey(revision uint64) string {
	return "results:" + strconv.FormatUint(revision, 10)
}

// GetResults serves the dashboard snapshot. Rendered payloads are cached per
// revision so a burst of pollers shares one encode.
func (ac *ApiController) GetResults(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get(resultsCacheKey(ac.service.Revision())); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	results := ac.service.Results()
	gson, err := json.Marshal(results)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "encode results: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "InternalError", "internal error")
		return
	}
	ac.cache.Set(resultsCacheKey(results.Revision), gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) Vote(w http.ResponseWriter, r *http.Request) {
	var payload voteRequest
	if err := decodeBody(w, r, &payload); err != nil {
		ac.metrics.IncRejections("BadRequest")
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// an empty string is the same as no choice
	if payload.Choice != nil && strings.TrimSpace(*payload.Choice) == "" {
		payload.Choice = nil
	}
	choice, err := models.ParseOptionalChoice(payload.Choice)
	if err != nil {
		ac.metrics.IncRejections(writeError(w, ac.logger, providers.TypePost, err))
		return
	}

	voterID, err := ac.identity.FromRequest(w, r)
	if err != nil {
		ac.metrics.IncRejections(writeError(w, ac.logger, providers.TypePost, err))
		return
	}

	receipt, err := ac.service.Vote(voterID, choice, payload.Comment)
	if err != nil {
		code := writeError(w, ac.logger, providers.TypePost, err)
		ac.metrics.IncRejections(code)
		ac.logger.Debugf(providers.TypePost, "vote rejected for %s: %s", voterID, code)
		return
	}

	if choice != nil {
		ac.metrics.IncVotes(string(*choice))
	}
	if receipt.CommentID != nil {
		ac.metrics.IncComments()
	}
	writeJSON(w, http.StatusOK, receipt)
}

// GetVoter tells a browser who it is and whether it already voted in the
// running session, so the client guard survives reloads and resets.
func (ac *ApiController) GetVoter(w http.ResponseWriter, r *http.Request) {
	voterID, err := ac.identity.FromRequest(w, r)
	if err != nil {
		writeError(w, ac.logger, providers.TypeGet, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.VoterStatus(voterID))
}

package controllers

import (
	"errors"
	json "github.com/goccy/go-json"
	"livepoll/internal/models"
	"livepoll/internal/providers"
	"net/http"
)

const maxRequestBodySize = 64 << 10

type apiError struct {
	status int
	code   string
}

var knownErrors = []struct {
	err error
	apiError
}{
	{models.ErrUnauthorized, apiError{http.StatusUnauthorized, "Unauthorized"}},
	{models.ErrDuplicateVote, apiError{http.StatusConflict, "DuplicateVote"}},
	{models.ErrEmptyComment, apiError{http.StatusBadRequest, "EmptyComment"}},
	{models.ErrEmptySubmission, apiError{http.StatusBadRequest, "EmptySubmission"}},
	{models.ErrInvalidChoice, apiError{http.StatusBadRequest, "InvalidChoice"}},
	{models.ErrCommentTooLong, apiError{http.StatusBadRequest, "CommentTooLong"}},
	{models.ErrInvalidExpected, apiError{http.StatusBadRequest, "InvalidExpected"}},
	{models.ErrThemeTooLong, apiError{http.StatusBadRequest, "ThemeTooLong"}},
}

func classify(err error) (apiError, bool) {
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return k.apiError, true
		}
	}
	return apiError{http.StatusInternalServerError, "InternalError"}, false
}

// writeError maps domain errors to their HTTP status and code. Anything
// unknown is logged and reported as a generic internal error. The code is
// returned for metrics.
func writeError(w http.ResponseWriter, logger providers.Logger, t providers.TypeEnum, err error) string {
	ae, known := classify(err)
	if !known {
		logger.Errorf(t, "internal error: %s", err)
		providers.WriteJSONError(w, ae.status, ae.code, "internal error")
		return ae.code
	}
	providers.WriteJSONError(w, ae.status, ae.code, err.Error())
	return ae.code
}

func writeBadRequest(w http.ResponseWriter, message string) {
	providers.WriteJSONError(w, http.StatusBadRequest, "BadRequest", message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

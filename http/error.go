package http

import (
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/hlog"

	"github.com/dmcclung/zero2prod"
)

type appHandler func(w http.ResponseWriter, r *http.Request) error

// Error parse HTTP error and write to header and body
func (s *Server) Error(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		hlog.FromRequest(r).Error().Msg(err.Error())

		code, message := zero2prod.ErrorCode(err), zero2prod.ErrorMessage(err)
		if code == zero2prod.ErrInternal || code == zero2prod.ErrStorage || code == zero2prod.ErrDelivery {
			sentry.CaptureException(err)
		}

		status := statusFromCode(code)
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
		}

		writeJSONResponse(w, status, map[string]interface{}{
			"error": message,
		})
	}
}

// statusFromCode maps the core error taxonomy to response codes. Internal
// detail (storage errors, hashes, tokens) never reaches the body; clients get
// the generic message.
func statusFromCode(code string) int {
	switch code {
	case zero2prod.ErrInvalid, zero2prod.ErrInvalidToken:
		return http.StatusBadRequest
	case zero2prod.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case zero2prod.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	//nolint:errcheck
	json.NewEncoder(w).Encode(response)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dmcclung/zero2prod"
)

func (s *Server) publishNewsletterHandler(w http.ResponseWriter, r *http.Request) error {
	username, password, ok := r.BasicAuth()
	if !ok {
		return &zero2prod.Error{Code: zero2prod.ErrInvalidCredentials, Message: "authentication required", Op: "http.publishNewsletter"}
	}

	identity, err := s.CredentialValidator.Validate(r.Context(), username, password)
	if err != nil {
		return err
	}

	var issue zero2prod.Issue
	if err := json.NewDecoder(r.Body).Decode(&issue); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrInvalid, Message: "malformed issue payload", Op: "http.publishNewsletter", Err: err}
	}

	report, err := s.NewsletterBroadcaster.Publish(r.Context(), issue, *identity)
	if err != nil {
		return err
	}

	hlog.FromRequest(r).Info().
		Int("attempted", report.Attempted).
		Int("delivered", report.Delivered).
		Int("failed", len(report.Failures)).
		Msg("Newsletter issue published")

	writeJSONResponse(w, http.StatusOK, report)

	return nil
}

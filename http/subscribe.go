package http

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dmcclung/zero2prod"
)

const (
	confirmationMessage = "A confirmation email has been sent to %s. Click the link in the email to confirm and activate your subscription. Check your spam folder if you don't see it within a couple of minutes."
	confirmedMessage    = "Your subscription has been confirmed. Welcome aboard!"
)

func (s *Server) subscriptionsHandler(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrInvalid, Message: "malformed form data", Op: "http.subscriptions", Err: err}
	}

	logger := hlog.FromRequest(r)
	logger.Info().Msg("Adding a new subscriber")

	sub, token, err := s.ConfirmationService.Register(r.Context(), r.FormValue("email"), r.FormValue("name"))
	if err != nil {
		return err
	}

	// The pending row and its token survive a failed send; the resend job
	// picks these subscribers up later.
	if err := s.ConfirmationService.SendConfirmation(r.Context(), sub, token); err != nil {
		return err
	}

	writeJSONResponse(w, http.StatusOK, &zero2prod.SubscriptionResponse{
		Message: fmt.Sprintf(confirmationMessage, sub.Email),
	})

	return nil
}

func (s *Server) confirmHandler(w http.ResponseWriter, r *http.Request) error {
	token := r.URL.Query().Get("token")
	if token == "" {
		return &zero2prod.Error{Code: zero2prod.ErrInvalidToken, Message: "token is not present", Op: "http.confirm"}
	}

	if err := s.ConfirmationService.Confirm(r.Context(), token); err != nil {
		return err
	}

	writeJSONResponse(w, http.StatusOK, &zero2prod.SubscriptionResponse{
		Message: confirmedMessage,
	})

	return nil
}

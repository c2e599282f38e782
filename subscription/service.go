package subscription

import (
	"context"
	"fmt"

	"github.com/matcornic/hermes/v2"
	"github.com/rs/zerolog"

	"github.com/dmcclung/zero2prod"
	"github.com/dmcclung/zero2prod/pkg/token"
)

// Service implements the double opt-in lifecycle: a registration becomes a
// pending subscriber with a single-use confirmation token, and a presented
// token becomes a confirmed subscriber.
type Service struct {
	store   zero2prod.SubscriberStore
	gateway zero2prod.EmailGateway
	baseURL string
	product string
	logger  zerolog.Logger
}

// NewService returns a new confirmation service. baseURL is the public server
// URL embedded in confirmation links; product names the list in outgoing
// email.
func NewService(store zero2prod.SubscriberStore, gateway zero2prod.EmailGateway, baseURL, product string, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		baseURL: baseURL,
		product: product,
		logger:  logger,
	}
}

// Register validates the registration and persists a pending subscriber with
// a fresh confirmation token. Validation short-circuits before any storage
// write. The token is returned so the caller can trigger SendConfirmation.
func (s *Service) Register(ctx context.Context, email, name string) (*zero2prod.Subscriber, string, error) {
	const op = "subscription.Register"

	email, err := zero2prod.ParseEmail(email)
	if err != nil {
		return nil, "", err
	}

	name, err = zero2prod.ParseName(name)
	if err != nil {
		return nil, "", err
	}

	id, err := s.store.InsertPendingSubscriber(ctx, email, name)
	if err != nil {
		return nil, "", &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	t, err := token.Generate()
	if err != nil {
		return nil, "", &zero2prod.Error{Op: op, Err: err}
	}

	if err := s.store.InsertToken(ctx, id, t); err != nil {
		return nil, "", &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	s.logger.Info().Str("subscriber_id", id).Msg("Saved new pending subscriber")

	return &zero2prod.Subscriber{
		ID:     id,
		Email:  email,
		Name:   name,
		Status: zero2prod.StatusPending,
	}, t, nil
}

// SendConfirmation delivers the confirmation email for a pending subscriber.
// The token must already be persisted; sending first could deliver a link
// that 404s.
func (s *Service) SendConfirmation(ctx context.Context, sub *zero2prod.Subscriber, t string) error {
	const op = "subscription.SendConfirmation"

	link := fmt.Sprintf("%s/confirm?token=%s", s.baseURL, t)

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: s.product,
			Link: s.baseURL,
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Name: sub.Name,
			Intros: []string{
				fmt.Sprintf("Welcome to %s", s.product),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to confirm your subscription:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Confirm your subscription",
						Link:  link,
					},
				},
			},
		},
	}

	html, err := h.GenerateHTML(email)
	if err != nil {
		return &zero2prod.Error{Op: op, Err: err}
	}

	text, err := h.GeneratePlainText(email)
	if err != nil {
		return &zero2prod.Error{Op: op, Err: err}
	}

	if err := s.gateway.Send(ctx, zero2prod.Email{
		To:      sub.Email,
		Subject: fmt.Sprintf("Welcome to %s!", s.product),
		HTML:    html,
		Text:    text,
	}); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrDelivery, Op: op, Err: err}
	}

	s.logger.Info().Str("subscriber_id", sub.ID).Msg("Sent confirmation email")

	return nil
}

// Confirm redeems a confirmation token: the owning subscriber is marked
// confirmed, then the token is consumed. Confirming an already confirmed
// subscriber is idempotent; a consumed or never-issued token is rejected.
func (s *Service) Confirm(ctx context.Context, t string) error {
	const op = "subscription.Confirm"

	id, err := s.store.FindSubscriberIDByToken(ctx, t)
	if err != nil {
		if zero2prod.ErrorCode(err) == zero2prod.ErrNotFound {
			return &zero2prod.Error{Code: zero2prod.ErrInvalidToken, Message: "unknown or already used confirmation token", Op: op}
		}
		return &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	// Status update before token deletion: a crash in between leaves a
	// redeemable token pointing at a confirmed subscriber, which re-confirms
	// harmlessly. Deleting first could strand the subscriber in pending.
	if err := s.store.SetConfirmed(ctx, id); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	if err := s.store.DeleteToken(ctx, t); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	s.logger.Info().Str("subscriber_id", id).Msg("Subscription confirmed")

	return nil
}

// ResendPending re-sends the confirmation email to every pending subscriber,
// reusing each one's live token. Individual delivery failures are logged and
// skipped.
func (s *Service) ResendPending(ctx context.Context) error {
	const op = "subscription.ResendPending"

	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	for i := range pending {
		p := &pending[i]
		if err := s.SendConfirmation(ctx, &p.Subscriber, p.Token); err != nil {
			s.logger.Error().Err(err).Str("subscriber_id", p.ID).Msg("Failed to resend confirmation")
		}
	}

	return nil
}

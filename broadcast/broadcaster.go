package broadcast

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dmcclung/zero2prod"
)

// Broadcaster sends one newsletter issue to every confirmed subscriber. It
// trusts its caller to have authenticated the requester.
type Broadcaster struct {
	store   zero2prod.SubscriberStore
	gateway zero2prod.EmailGateway
	logger  zerolog.Logger
}

// NewBroadcaster returns a new broadcaster.
func NewBroadcaster(store zero2prod.SubscriberStore, gateway zero2prod.EmailGateway, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// Publish validates the issue, fetches all confirmed subscribers and attempts
// delivery to each exactly once. Delivery failures do not abort the loop;
// they are collected in the report so the caller can see how many went out
// and to whom delivery failed.
func (b *Broadcaster) Publish(ctx context.Context, issue zero2prod.Issue, requester zero2prod.Identity) (*zero2prod.BroadcastReport, error) {
	const op = "broadcast.Publish"

	if err := issue.Validate(); err != nil {
		return nil, err
	}

	subscribers, err := b.store.ListConfirmed(ctx)
	if err != nil {
		return nil, &zero2prod.Error{Code: zero2prod.ErrStorage, Op: op, Err: err}
	}

	b.logger.Info().
		Str("requester", requester.Username).
		Str("subject", issue.Subject).
		Int("recipients", len(subscribers)).
		Msg("Publishing newsletter issue")

	report := &zero2prod.BroadcastReport{}
	for _, sub := range subscribers {
		report.Attempted++

		err := b.gateway.Send(ctx, zero2prod.Email{
			To:      sub.Email,
			Subject: issue.Subject,
			HTML:    issue.HTML,
			Text:    issue.Text,
		})
		if err != nil {
			b.logger.Error().Err(err).Str("subscriber_id", sub.ID).Msg("Failed to deliver issue")
			report.Failures = append(report.Failures, zero2prod.DeliveryFailure{
				Email:  sub.Email,
				Reason: err.Error(),
			})
			continue
		}

		report.Delivered++
	}

	return report, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// SubscriberService handles newsletter signups.
type SubscriberService struct {
	data    *facade.Client
	emitter sse.Emitter
	logger  *slog.Logger
}

// NewSubscriberService creates a new subscriber service.
func NewSubscriberService(data *facade.Client, emitter sse.Emitter, logger *slog.Logger) *SubscriberService {
	return &SubscriberService{
		data:    data,
		emitter: emitterOrNop(emitter),
		logger:  logger,
	}
}

// Subscribe validates email and stores the signup.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	res := s.data.Subscribers.CreateResult(ctx, email)
	if res.Value == nil {
		return nil, writeError("subscription", res)
	}

	s.emitter.Emit(sse.NewSubscriberCreatedEvent(*res.Value))
	s.logger.Info("newsletter signup", "subscriber_id", res.Value.ID)
	return res.Value, nil
}

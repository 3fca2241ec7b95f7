package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSubscriberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          "/api/v1/subscribers",
		Summary:       "Subscribe to the newsletter",
		Description:   "Stores a newsletter signup",
		Tags:          []string{"Newsletter"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.limitWrites},
	}, s.handleSubscribe)
}

// SubscribeRequest is the request body for a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" minLength:"3" maxLength:"254" doc:"Email address"`
}

// SubscribeInput wraps the signup request for Huma.
type SubscribeInput struct {
	Body SubscribeRequest
}

// SubscriberResponse confirms a signup.
type SubscriberResponse struct {
	ID          string    `json:"id" doc:"Subscriber ID"`
	Email       string    `json:"email" doc:"Email address"`
	CreatedDate time.Time `json:"created_date" doc:"Signup time"`
}

// SubscriberOutput wraps a signup for Huma.
type SubscriberOutput struct {
	Body SubscriberResponse
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*SubscriberOutput, error) {
	sub, err := s.services.Subscribers.Subscribe(ctx, input.Body.Email)
	if err != nil {
		return nil, err
	}

	return &SubscriberOutput{Body: SubscriberResponse{
		ID:          sub.ID,
		Email:       sub.Email,
		CreatedDate: sub.CreatedDate.Time,
	}}, nil
}

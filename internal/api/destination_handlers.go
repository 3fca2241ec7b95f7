package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

func (s *Server) registerDestinationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDestinations",
		Method:      http.MethodGet,
		Path:        "/api/v1/destinations",
		Summary:     "List destinations",
		Description: "Returns destinations filtered by category and continent",
		Tags:        []string{"Destinations"},
	}, s.handleListDestinations)

	huma.Register(s.api, huma.Operation{
		OperationID: "listContinents",
		Method:      http.MethodGet,
		Path:        "/api/v1/destinations/continents",
		Summary:     "List continents",
		Description: "Returns the continents that have destinations, in first-seen order",
		Tags:        []string{"Destinations"},
	}, s.handleListContinents)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDestination",
		Method:      http.MethodGet,
		Path:        "/api/v1/destinations/{id}",
		Summary:     "Get destination",
		Description: "Returns a destination by ID",
		Tags:        []string{"Destinations"},
	}, s.handleGetDestination)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDestinationPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/destinations/{id}/posts",
		Summary:     "List destination posts",
		Description: "Returns the stories about a destination, matched by ID or by name",
		Tags:        []string{"Destinations"},
	}, s.handleListDestinationPosts)
}

// === DTOs ===

// ListDestinationsInput contains parameters for listing destinations.
type ListDestinationsInput struct {
	Category  string `query:"category" maxLength:"64" doc:"Category filter; 'all' disables it"`
	Continent string `query:"continent" maxLength:"64" doc:"Continent filter; 'all' disables it"`
}

// DestinationIDInput contains the destination ID path parameter.
type DestinationIDInput struct {
	ID string `path:"id" maxLength:"256" doc:"Destination ID (or name, for the posts listing)"`
}

// DestinationResponse contains destination data in API responses.
type DestinationResponse struct {
	ID          string   `json:"id" doc:"Destination ID"`
	Name        string   `json:"name" doc:"Display name"`
	Country     string   `json:"country" doc:"Country"`
	Description string   `json:"description,omitempty" doc:"Description"`
	Image       string   `json:"image,omitempty" doc:"Image URL"`
	Category    string   `json:"category,omitempty" doc:"Category"`
	Continent   string   `json:"continent,omitempty" doc:"Continent key"`
	BestSeason  string   `json:"best_season,omitempty" doc:"Best time to visit"`
	Highlights  []string `json:"highlights,omitempty" doc:"Highlights"`
	Featured    bool     `json:"featured" doc:"Whether the destination is featured"`
}

// DestinationListResponse contains a list of destinations.
type DestinationListResponse struct {
	Destinations []DestinationResponse `json:"destinations" doc:"Destinations"`
	Total        int                   `json:"total" doc:"Number of destinations returned"`
}

// DestinationListOutput wraps a destination list for Huma.
type DestinationListOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       DestinationListResponse
}

// DestinationOutput wraps a destination for Huma.
type DestinationOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       DestinationResponse
}

// ContinentsResponse contains continent facets.
type ContinentsResponse struct {
	Continents []service.Continent `json:"continents" doc:"Continents with their destination counts"`
}

// ContinentsOutput wraps continent facets for Huma.
type ContinentsOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       ContinentsResponse
}

// === Handlers ===

func (s *Server) handleListDestinations(ctx context.Context, input *ListDestinationsInput) (*DestinationListOutput, error) {
	dests := s.services.Destinations.List(ctx, service.DestinationQuery{
		Category:  input.Category,
		Continent: input.Continent,
	})

	resp := make([]DestinationResponse, len(dests.Value))
	for i, d := range dests.Value {
		resp[i] = toDestinationResponse(d)
	}

	return &DestinationListOutput{
		DataSource: string(dests.Source),
		Body:       DestinationListResponse{Destinations: resp, Total: len(resp)},
	}, nil
}

func (s *Server) handleListContinents(ctx context.Context, _ *struct{}) (*ContinentsOutput, error) {
	continents := s.services.Destinations.Continents(ctx)
	return &ContinentsOutput{
		DataSource: string(continents.Source),
		Body:       ContinentsResponse{Continents: continents.Value},
	}, nil
}

func (s *Server) handleGetDestination(ctx context.Context, input *DestinationIDInput) (*DestinationOutput, error) {
	dest := s.services.Destinations.Get(ctx, input.ID)
	if dest.Value == nil {
		return nil, domainerrors.NotFoundf("destination %s not found", input.ID)
	}

	return &DestinationOutput{
		DataSource: string(dest.Source),
		Body:       toDestinationResponse(*dest.Value),
	}, nil
}

func (s *Server) handleListDestinationPosts(ctx context.Context, input *DestinationIDInput) (*PostListOutput, error) {
	return postListOutput(s.services.Destinations.Posts(ctx, input.ID)), nil
}

func toDestinationResponse(d domain.Destination) DestinationResponse {
	return DestinationResponse{
		ID:          d.ID,
		Name:        d.Name,
		Country:     d.Country,
		Description: d.Description,
		Image:       d.Image,
		Category:    d.Category,
		Continent:   d.Continent,
		BestSeason:  d.BestSeason,
		Highlights:  d.Highlights,
		Featured:    d.Featured,
	}
}

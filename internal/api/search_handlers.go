package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search across posts and destinations",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching.
type SearchInput struct {
	Query     string `query:"q" maxLength:"200" doc:"Search query; empty lists everything"`
	Types     string `query:"type" maxLength:"100" doc:"Comma-separated types to search (post,destination). Omit for all."`
	Category  string `query:"category" maxLength:"64" doc:"Category filter"`
	Continent string `query:"continent" maxLength:"64" doc:"Continent filter"`
	Sort      string `query:"sort" enum:"relevance,name,recent" doc:"Sort order (default relevance)"`
	Limit     int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset    int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
	Facets    bool   `query:"facets" doc:"Include facets in response"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Category = input.Category
	params.Continent = input.Continent
	params.IncludeFacets = input.Facets
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	if input.Types != "" {
		for t := range strings.SplitSeq(input.Types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				params.Types = append(params.Types, search.DocType(t))
			}
		}
	}

	s.logger.Debug("search request received",
		"query", input.Query,
		"types", params.Types,
		"limit", params.Limit,
	)

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		"query", input.Query,
		"total", result.Total,
		"hits", len(result.Hits),
		"took_ms", result.TookMs,
	)

	return &SearchOutput{Body: result}, nil
}

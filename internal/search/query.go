package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/offroutechronicles/offroute-server/internal/normalize"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string    // User's search query
	Types []DocType // Document types to include (empty = all)

	// Filters; "all" or empty disables them
	Category  string
	Continent string

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "name", "recent"
	SortOrder string // "asc", "desc"

	IncludeFacets bool
	Highlight     bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID          string            `json:"id"`
	Type        DocType           `json:"type"`
	Score       float64           `json:"score"`
	Name        string            `json:"name"`
	Summary     string            `json:"summary,omitempty"`
	Author      string            `json:"author,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Country     string            `json:"country,omitempty"`
	Continent   string            `json:"continent,omitempty"`
	Category    string            `json:"category,omitempty"`
	Image       string            `json:"image,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types      []FacetCount `json:"types,omitempty"`
	Categories []FacetCount `json:"categories,omitempty"`
	Continents []FacetCount `json:"continents,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

var storedFields = []string{
	"id", "type", "name", "summary", "author", "destination",
	"country", "continent", "category", "image", "featured",
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("type", bleve.NewFacetRequest("type", 10))
		searchRequest.AddFacet("category", bleve.NewFacetRequest("category", 20))
		searchRequest.AddFacet("continent", bleve.NewFacetRequest("continent", 10))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("summary")
	}

	searchRequest.Fields = storedFields

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		str := func(field string) string {
			v, _ := hit.Fields[field].(string)
			return v
		}

		searchHit := SearchHit{
			ID:          str("id"),
			Type:        DocType(str("type")),
			Score:       hit.Score,
			Name:        str("name"),
			Summary:     str("summary"),
			Author:      str("author"),
			Destination: str("destination"),
			Country:     str("country"),
			Continent:   str("continent"),
			Category:    str("category"),
			Image:       str("image"),
		}
		if f, ok := hit.Fields["featured"].(bool); ok {
			searchHit.Featured = f
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = SearchFacets{
			Types:      facetCounts(searchResult, "type"),
			Categories: facetCounts(searchResult, "category"),
			Continents: facetCounts(searchResult, "continent"),
		}
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// The text query matches titles and names first, then excerpts and
// descriptions, then post bodies. Fuzzy and prefix variants on the name
// cover typos and search-as-you-type.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		summaryMatch := bleve.NewMatchQuery(q)
		summaryMatch.SetField("summary")
		summaryMatch.SetBoost(1.5)

		contentMatch := bleve.NewMatchQuery(q)
		contentMatch.SetField("content")
		contentMatch.SetBoost(0.5)

		placeMatch := bleve.NewMatchQuery(q)
		placeMatch.SetField("destination")

		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, summaryMatch, contentMatch, placeMatch, fuzzyQuery}

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(string(t))
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	if !normalize.IsAll(params.Category) {
		cq := bleve.NewTermQuery(normalize.Category(params.Category))
		cq.SetField("category")
		queries = append(queries, cq)
	}

	if !normalize.IsAll(params.Continent) {
		cq := bleve.NewTermQuery(normalize.Key(params.Continent))
		cq.SetField("continent")
		queries = append(queries, cq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title", "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

func facetCounts(result *bleve.SearchResult, field string) []FacetCount {
	facet, ok := result.Facets[field]
	if !ok || facet.Terms == nil {
		return nil
	}
	var out []FacetCount
	for _, term := range facet.Terms.Terms() {
		out = append(out, FacetCount{Value: term.Term, Count: term.Count})
	}
	return out
}

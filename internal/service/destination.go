package service

import (
	"context"
	"log/slog"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/normalize"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
)

// DestinationQuery filters the destinations list. Empty fields and "all"
// match everything.
type DestinationQuery struct {
	Category  string
	Continent string
}

// Continent is one continent facet.
type Continent struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DestinationService serves destinations.
type DestinationService struct {
	data    *facade.Client
	cache   *querycache.Cache
	stories *StoryService
	logger  *slog.Logger
}

// NewDestinationService creates a new destination service.
func NewDestinationService(data *facade.Client, cache *querycache.Cache, stories *StoryService, logger *slog.Logger) *DestinationService {
	return &DestinationService{
		data:    data,
		cache:   cache,
		stories: stories,
		logger:  logger,
	}
}

func (s *DestinationService) all(ctx context.Context) Sourced[[]domain.Destination] {
	return cached(ctx, s.cache, querycache.K(querycache.KeyDestinations), s.data.Destinations.ListResult)
}

// List returns the destinations matching q, in backend order.
// Category and continent compare on their normalized keys.
func (s *DestinationService) List(ctx context.Context, q DestinationQuery) Sourced[[]domain.Destination] {
	return mapSourced(s.all(ctx), func(dests []domain.Destination) []domain.Destination {
		out := make([]domain.Destination, 0, len(dests))
		for _, d := range dests {
			if !normalize.IsAll(q.Category) && normalize.Key(d.Category) != normalize.Key(q.Category) {
				continue
			}
			if !normalize.IsAll(q.Continent) && normalize.Key(d.Continent) != normalize.Key(q.Continent) {
				continue
			}
			out = append(out, d)
		}
		return out
	})
}

// Continents returns the distinct non-empty continents in the order
// they first appear, with display labels and destination counts.
func (s *DestinationService) Continents(ctx context.Context) Sourced[[]Continent] {
	return mapSourced(s.all(ctx), func(dests []domain.Destination) []Continent {
		index := map[string]int{}
		out := []Continent{}
		for _, d := range dests {
			if d.Continent == "" {
				continue
			}
			if i, ok := index[d.Continent]; ok {
				out[i].Count++
				continue
			}
			index[d.Continent] = len(out)
			out = append(out, Continent{
				Key:   d.Continent,
				Label: normalize.ContinentLabel(d.Continent),
				Count: 1,
			})
		}
		return out
	})
}

// Get returns the destination with id. Value is nil when it does not
// exist.
func (s *DestinationService) Get(ctx context.Context, id string) Sourced[*domain.Destination] {
	return cached(ctx, s.cache, querycache.K(querycache.KeyDestination, id), func(ctx context.Context) facade.Result[*domain.Destination] {
		return s.data.Destinations.GetResult(ctx, id)
	})
}

// Posts returns the posts about a destination, given its id or name.
func (s *DestinationService) Posts(ctx context.Context, idOrName string) Sourced[[]domain.BlogPost] {
	return s.stories.ByDestination(ctx, idOrName)
}

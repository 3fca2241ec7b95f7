package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/facade"
)

func destIDs(dests []domain.Destination) []string {
	out := make([]string, len(dests))
	for i, d := range dests {
		out[i] = d.ID
	}
	return out
}

func TestDestinationService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, destIDs(f.dests.List(ctx, DestinationQuery{Category: "all"}).Value))
	assert.Equal(t, []string{"2"}, destIDs(f.dests.List(ctx, DestinationQuery{Category: "Food_Cafe"}).Value))
	assert.Equal(t, []string{"3"}, destIDs(f.dests.List(ctx, DestinationQuery{Continent: "europe"}).Value))
	assert.Equal(t, []string{"4", "6"}, destIDs(f.dests.List(ctx, DestinationQuery{Category: "adventure", Continent: "Asia"}).Value))
	assert.Empty(t, f.dests.List(ctx, DestinationQuery{Continent: "africa"}).Value)
}

func TestDestinationService_Continents(t *testing.T) {
	f := newFixture(t)

	res := f.dests.Continents(context.Background())
	assert.Equal(t, facade.SourceMock, res.Source)
	assert.Equal(t, []Continent{
		{Key: "asia", Label: "Asia", Count: 5},
		{Key: "europe", Label: "Europe", Count: 1},
	}, res.Value)
}

func TestDestinationService_Get(t *testing.T) {
	f := newFixture(t, withRemote())
	ctx := context.Background()

	got := f.dests.Get(ctx, "3")
	require.NotNil(t, got.Value)
	assert.Equal(t, "Paris, France", got.Value.Name)
	assert.Equal(t, facade.SourceRemote, got.Source)

	assert.Nil(t, f.dests.Get(ctx, "missing").Value)
}

func TestDestinationService_Posts(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"2"}, ids(f.dests.Posts(context.Background(), "2").Value))
}

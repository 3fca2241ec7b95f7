package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRows() []Record {
	return []Record{
		{"id": "1", "category": "adventure", "featured": true, "created_date": "2024-01-15T00:00:00Z"},
		{"id": "2", "category": "food", "featured": true, "created_date": "2024-01-10T00:00:00Z"},
		{"id": "3", "category": "culture", "featured": true, "created_date": "2024-01-12T00:00:00Z"},
		{"id": "4", "category": "nature", "featured": false, "created_date": "2024-01-08T00:00:00Z", "destination_id": nil},
	}
}

func ids(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["id"].(string)
	}
	return out
}

func TestMatchRecord(t *testing.T) {
	rec := Record{"id": "1", "featured": true, "read_time": float64(5), "parent_id": nil}

	assert.True(t, MatchRecord(rec, nil))
	assert.True(t, MatchRecord(rec, []Filter{Eq("id", "1")}))
	assert.True(t, MatchRecord(rec, []Filter{Eq("id", 1)}))
	assert.True(t, MatchRecord(rec, []Filter{Eq("featured", "true")}))
	assert.True(t, MatchRecord(rec, []Filter{Eq("read_time", 5)}))
	assert.True(t, MatchRecord(rec, []Filter{Eq("parent_id", nil)}))
	assert.False(t, MatchRecord(rec, []Filter{Eq("id", "1"), Eq("featured", false)}))
	assert.False(t, MatchRecord(rec, []Filter{Eq("missing", "x")}))
}

func TestEvaluate_FilterAndOrder(t *testing.T) {
	rows := postRows()

	got := Evaluate(rows, From("blog_posts").Where("featured", true).OrderBy("created_date", true))
	assert.Equal(t, []string{"1", "3", "2"}, ids(got))

	got = Evaluate(rows, From("blog_posts").OrderBy("created_date", false))
	assert.Equal(t, []string{"4", "2", "3", "1"}, ids(got))

	got = Evaluate(rows, From("blog_posts"))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got), "no order keeps insertion order")
}

func TestEvaluate_SingleAndIsolation(t *testing.T) {
	rows := postRows()

	got := Evaluate(rows, From("blog_posts").Where("category", "food").One())
	require.Len(t, got, 1)

	got[0]["category"] = "mutated"
	assert.Equal(t, "food", rows[1]["category"], "results are copies")

	assert.Empty(t, Evaluate(rows, From("blog_posts").Where("id", "99")))
}

func TestEvaluate_StableDescending(t *testing.T) {
	rows := []Record{
		{"id": "a", "created_date": "2024-01-01"},
		{"id": "b", "created_date": "2024-01-02"},
		{"id": "c", "created_date": "2024-01-01"},
	}
	got := Evaluate(rows, From("t").OrderBy("created_date", true))
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
}

func TestCompareValues(t *testing.T) {
	assert.Negative(t, CompareValues("2024-01-01T00:00:00Z", "2024-01-01T10:00:00+02:00"))
	assert.Negative(t, CompareValues(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01"))
	assert.Negative(t, CompareValues("2", "10"), "numeric strings compare as numbers")
	assert.Negative(t, CompareValues(nil, "a"))
	assert.Zero(t, CompareValues(nil, nil))
	assert.Positive(t, CompareValues("b", "a"))
}

func TestCodec_RoundTrip(t *testing.T) {
	in := Record{
		"id":         "4",
		"highlights": []any{"Temples", "Rice terraces"},
		"featured":   true,
	}

	enc, err := EncodeRecord(in)
	require.NoError(t, err)
	assert.Equal(t, `["Temples","Rice terraces"]`, enc["highlights"])
	assert.IsType(t, []any{}, in["highlights"], "input untouched")

	// sqlite hands back integers for booleans and text for JSON.
	enc["featured"] = int64(1)
	dec, err := DecodeRecord(enc)
	require.NoError(t, err)
	assert.Equal(t, []any{"Temples", "Rice terraces"}, dec["highlights"])
	assert.Equal(t, true, dec["featured"])
}

func TestCodec_DecodeEdgeCases(t *testing.T) {
	dec, err := DecodeRecord(Record{
		"gallery_images": []byte(""),
		"featured":       "false",
		"title":          []byte("Bali"),
	})
	require.NoError(t, err)
	assert.Nil(t, dec["gallery_images"])
	assert.Equal(t, false, dec["featured"])
	assert.Equal(t, "Bali", dec["title"])

	_, err = DecodeRecord(Record{"highlights": "not json"})
	assert.Error(t, err)
}

func TestQueryBuilderDoesNotAlias(t *testing.T) {
	base := From("comments").Where("post_id", "1")
	a := base.Where("parent_id", "x")
	b := base.Where("author_name", "y")

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, "parent_id", a.Filters[1].Column)
	assert.Equal(t, "author_name", b.Filters[1].Column)
}

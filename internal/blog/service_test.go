package blog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestListPosts_PassesThroughPage(t *testing.T) {
	store := newFakeStore()
	store.page = &cms.PostPage{
		Docs:        []cms.Post{{ID: "p1", Status: cms.StatusPublished}},
		TotalDocs:   11,
		TotalPages:  2,
		Page:        2,
		HasPrevPage: true,
	}
	svc := NewService(store, quietLogger(), 0)

	got := svc.ListPosts(context.Background(), Params{Category: "tutorials", Page: "2"})

	assert.Equal(t, Result{
		Docs:        store.page.Docs,
		TotalDocs:   11,
		TotalPages:  2,
		Page:        2,
		HasPrevPage: true,
	}, got)
	q := store.lastQuery()
	assert.Equal(t, 2, q.Page)
	c, _ := q.Where.Lookup("category")
	assert.Equal(t, "c1", c.Value)
}

func TestListPosts_FailureAbsorbed(t *testing.T) {
	store := newFakeStore()
	store.findErr = errStoreDown

	var logs strings.Builder
	svc := NewService(store, slog.New(slog.NewJSONHandler(&logs, nil)), 10)

	before := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list posts"))
	got := svc.ListPosts(context.Background(), Params{Search: "x", Page: "7"})

	assert.Equal(t, Result{Docs: []cms.Post{}, TotalDocs: 0, TotalPages: 0, Page: 1}, got)
	assert.NotNil(t, got.Docs)
	assert.Contains(t, logs.String(), "store query failed")
	assert.Contains(t, logs.String(), "connection refused")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list posts")))
}

func TestListPosts_LookupFailureAbsorbed(t *testing.T) {
	store := newFakeStore()
	store.page = &cms.PostPage{
		Docs:       []cms.Post{{ID: "p1", Status: cms.StatusPublished}},
		TotalDocs:  1,
		TotalPages: 1,
		Page:       1,
	}
	store.lookupErr = errStoreDown
	svc := NewService(store, quietLogger(), 10)

	before := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list posts"))
	for _, p := range []Params{{Category: "tutorials"}, {Tag: "go"}} {
		got := svc.ListPosts(context.Background(), p)
		assert.Equal(t, EmptyResult(), got, "params %+v", p)
	}
	assert.Empty(t, store.queries, "feed query must not run after a failed lookup")
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list posts")))
}

func TestOutcome_Result(t *testing.T) {
	assert.Equal(t, EmptyResult(), Outcome{Err: errStoreDown}.Result())
	assert.Equal(t, EmptyResult(), Outcome{}.Result())

	r := Outcome{Page: &cms.PostPage{Page: 3, TotalDocs: 1}}.Result()
	assert.Equal(t, 3, r.Page)
	assert.NotNil(t, r.Docs)
}

func TestEmptyResult_JSON(t *testing.T) {
	b, err := json.Marshal(EmptyResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"docs":[],"totalDocs":0,"totalPages":0,"page":1,"hasPrevPage":false,"hasNextPage":false}`, string(b))
}

func TestGetPost(t *testing.T) {
	store := newFakeStore()
	store.posts["pub"] = &cms.Post{ID: "pub", Status: cms.StatusPublished}
	store.posts["draft"] = &cms.Post{ID: "draft", Status: cms.StatusDraft}
	svc := NewService(store, quietLogger(), 10)

	p, err := svc.GetPost(context.Background(), "pub")
	require.NoError(t, err)
	assert.Equal(t, "pub", p.ID)

	_, err = svc.GetPost(context.Background(), "draft")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	store.findErr = errStoreDown
	_, err = svc.GetPost(context.Background(), "pub")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGetPostBySlug(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, quietLogger(), 10)

	_, err := svc.GetPostBySlug(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	v := store.lastQuery().Values()
	assert.Equal(t, "hello", v.Get("where[slug][equals]"))
	assert.Equal(t, "published", v.Get("where[status][equals]"))
	assert.Equal(t, "1", v.Get("limit"))

	store.page = &cms.PostPage{Docs: []cms.Post{{ID: "p1", Slug: "hello"}}}
	p, err := svc.GetPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestRecentPosts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, quietLogger(), 10)

	assert.Empty(t, svc.RecentPosts(context.Background(), 0))
	q := store.lastQuery()
	assert.Equal(t, DefaultRecentLimit, q.Limit)
	assert.Equal(t, 1, q.Depth)
	assert.Equal(t, SortNewest, q.Sort)

	store.findErr = errStoreDown
	got := svc.RecentPosts(context.Background(), 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostsByCategoryAndTag(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, quietLogger(), 10)

	svc.PostsByCategory(context.Background(), "tutorials", 0)
	v := store.lastQuery().Values()
	assert.Equal(t, "c1", v.Get("where[and][0][category][equals]"))
	assert.Equal(t, "published", v.Get("where[and][1][status][equals]"))
	assert.Equal(t, "10", v.Get("limit"))

	svc.PostsByTag(context.Background(), "go", 4)
	v = store.lastQuery().Values()
	assert.Equal(t, "t1", v.Get("where[and][0][tags][in][0]"))
	assert.Equal(t, "4", v.Get("limit"))

	// Unknown slugs match nothing and never reach the posts collection.
	n := len(store.queries)
	assert.Empty(t, svc.PostsByCategory(context.Background(), "nope", 0))
	assert.Empty(t, svc.PostsByTag(context.Background(), "nope", 0))
	assert.Len(t, store.queries, n)
}

func TestSearchPosts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, quietLogger(), 10)

	assert.Empty(t, svc.SearchPosts(context.Background(), "   ", 0))
	assert.Empty(t, store.queries)

	svc.SearchPosts(context.Background(), " chi ", 0)
	v := store.lastQuery().Values()
	assert.Equal(t, "published", v.Get("where[and][0][status][equals]"))
	assert.Equal(t, "chi", v.Get("where[and][1][or][0][title][contains]"))
	assert.Equal(t, "chi", v.Get("where[and][1][or][3][seo.keywords][contains]"))
	assert.Equal(t, "20", v.Get("limit"))
}

func TestCategoriesAndTags(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, quietLogger(), 10)
	assert.Len(t, svc.Categories(context.Background()), 1)
	assert.Len(t, svc.Tags(context.Background()), 1)

	store.lookupErr = errStoreDown
	assert.NotNil(t, svc.Categories(context.Background()))
	assert.Empty(t, svc.Categories(context.Background()))
	assert.Empty(t, svc.Tags(context.Background()))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 7, ReadingTime(&cms.Post{ReadingTime: 7}))
	assert.Equal(t, 1, ReadingTime(&cms.Post{}))
	assert.Equal(t, 1, ReadingTime(nil))

	words := strings.TrimSpace(strings.Repeat("word ", 450))
	content, err := json.Marshal(map[string]any{
		"root": map[string]any{
			"type": "root",
			"children": []any{map[string]any{
				"type":     "paragraph",
				"children": []any{map[string]any{"type": "text", "text": words, "format": 0}},
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, ReadingTime(&cms.Post{Content: content}))
}

package blog

import (
	"context"
	"errors"
	"sync"

	"github.com/dgallion1/techblog/internal/cms"
)

var errStoreDown = errors.New("connection refused")

// fakeStore is an in-memory Store that records the queries it receives.
type fakeStore struct {
	mu sync.Mutex

	categories []cms.Category
	tags       []cms.Tag
	posts      map[string]*cms.Post
	page       *cms.PostPage

	findErr   error
	lookupErr error

	queries []cms.Query
	lookups []string
}

func (f *fakeStore) FindPosts(_ context.Context, q cms.Query) (*cms.PostPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &cms.PostPage{Docs: []cms.Post{}, Page: q.Page}, nil
}

func (f *fakeStore) FindPostByID(_ context.Context, id string) (*cms.Post, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, cms.ErrNotFound
}

func (f *fakeStore) FindCategories(context.Context) ([]cms.Category, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.categories, nil
}

func (f *fakeStore) FindTags(context.Context) ([]cms.Tag, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.tags, nil
}

func (f *fakeStore) CategoryBySlug(_ context.Context, slug string) (*cms.Category, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, "category:"+slug)
	f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, cms.ErrNotFound
}

func (f *fakeStore) TagBySlug(_ context.Context, slug string) (*cms.Tag, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, "tag:"+slug)
	f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for i := range f.tags {
		if f.tags[i].Slug == slug {
			return &f.tags[i], nil
		}
	}
	return nil, cms.ErrNotFound
}

func (f *fakeStore) lastQuery() cms.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return cms.Query{}
	}
	return f.queries[len(f.queries)-1]
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: []cms.Category{{ID: "c1", Name: "Tutorials", Slug: "tutorials"}},
		tags:       []cms.Tag{{ID: "t1", Name: "Go", Slug: "go"}},
		posts:      map[string]*cms.Post{},
	}
}

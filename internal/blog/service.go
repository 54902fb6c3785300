package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/metrics"
	"github.com/dgallion1/techblog/internal/richtext"
)

// ErrNotFound is returned when a post does not exist or is not published.
var ErrNotFound = errors.New("post not found")

// Default limits for the secondary queries.
const (
	DefaultRecentLimit = 5
	DefaultListLimit   = 10
	DefaultSearchLimit = 20
	WordsPerMinute     = 200
)

// Store is the document store the blog reads from.
type Store interface {
	FindPosts(ctx context.Context, q cms.Query) (*cms.PostPage, error)
	FindPostByID(ctx context.Context, id string) (*cms.Post, error)
	FindCategories(ctx context.Context) ([]cms.Category, error)
	FindTags(ctx context.Context) ([]cms.Tag, error)
	CategoryBySlug(ctx context.Context, slug string) (*cms.Category, error)
	TagBySlug(ctx context.Context, slug string) (*cms.Tag, error)
}

// Result is the page shape handed to presentation code.
type Result struct {
	Docs        []cms.Post `json:"docs"`
	TotalDocs   int        `json:"totalDocs"`
	TotalPages  int        `json:"totalPages"`
	Page        int        `json:"page"`
	HasPrevPage bool       `json:"hasPrevPage"`
	HasNextPage bool       `json:"hasNextPage"`
}

// EmptyResult is what callers see when a query fails.
func EmptyResult() Result {
	return Result{Docs: []cms.Post{}, Page: 1}
}

// Outcome is the result of one store call.
type Outcome struct {
	Page *cms.PostPage
	Err  error
}

// OK reports whether the call produced a page.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Page != nil
}

// Result applies the fallback policy: every failure becomes EmptyResult.
func (o Outcome) Result() Result {
	if !o.OK() {
		return EmptyResult()
	}
	docs := o.Page.Docs
	if docs == nil {
		docs = []cms.Post{}
	}
	return Result{
		Docs:        docs,
		TotalDocs:   o.Page.TotalDocs,
		TotalPages:  o.Page.TotalPages,
		Page:        o.Page.Page,
		HasPrevPage: o.Page.HasPrevPage,
		HasNextPage: o.Page.HasNextPage,
	}
}

// Docs returns the page's posts, or an empty slice on failure.
func (o Outcome) Docs() []cms.Post {
	return o.Result().Docs
}

// Service answers the blog's read queries.
type Service struct {
	store   Store
	builder *Builder
	log     *slog.Logger
}

func NewService(store Store, log *slog.Logger, pageSize int) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   store,
		builder: &Builder{Resolver: storeResolver{store}, PageSize: pageSize},
		log:     log,
	}
}

// ListPosts returns one page of the published feed. Store failures are
// logged and yield EmptyResult.
func (s *Service) ListPosts(ctx context.Context, p Params) Result {
	f, err := s.builder.Build(ctx, p)
	if err != nil {
		s.absorb("list posts", err)
		return Outcome{Err: err}.Result()
	}
	return s.find(ctx, "list posts", f.Query()).Result()
}

// GetPost returns a published post by id.
func (s *Service) GetPost(ctx context.Context, id string) (*cms.Post, error) {
	post, err := s.store.FindPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if !post.Published() {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetPostBySlug returns a published post by slug.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*cms.Post, error) {
	q := cms.Query{
		Where: cms.Where{Conditions: []cms.Condition{
			{Field: "slug", Op: cms.OpEquals, Value: slug},
			{Field: "status", Op: cms.OpEquals, Value: cms.StatusPublished},
		}},
		Limit: 1,
		Depth: 2,
	}
	page, err := s.store.FindPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get post by slug %s: %w", slug, err)
	}
	if len(page.Docs) == 0 {
		return nil, ErrNotFound
	}
	return &page.Docs[0], nil
}

// RecentPosts returns the newest published posts.
func (s *Service) RecentPosts(ctx context.Context, limit int) []cms.Post {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	q := cms.Query{
		Where: cms.Equals("status", cms.StatusPublished),
		Limit: limit,
		Sort:  SortNewest,
		Depth: 1,
	}
	return s.find(ctx, "recent posts", q).Docs()
}

// PostsByCategory lists published posts in the category with the given
// slug. Unlike the feed filter, an unknown slug matches nothing.
func (s *Service) PostsByCategory(ctx context.Context, slug string, limit int) []cms.Post {
	cat, err := s.store.CategoryBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, cms.ErrNotFound) {
			s.absorb("posts by category", err)
		}
		return []cms.Post{}
	}
	return s.listBy(ctx, "posts by category", cms.Condition{Field: "category", Op: cms.OpEquals, Value: cat.ID}, limit)
}

// PostsByTag lists published posts carrying the tag with the given slug.
func (s *Service) PostsByTag(ctx context.Context, slug string, limit int) []cms.Post {
	tag, err := s.store.TagBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, cms.ErrNotFound) {
			s.absorb("posts by tag", err)
		}
		return []cms.Post{}
	}
	return s.listBy(ctx, "posts by tag", cms.Condition{Field: "tags", Op: cms.OpIn, List: []string{tag.ID}}, limit)
}

func (s *Service) listBy(ctx context.Context, op string, c cms.Condition, limit int) []cms.Post {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := cms.Query{
		Where: cms.AllOf(
			cms.Where{Conditions: []cms.Condition{c}},
			cms.Equals("status", cms.StatusPublished),
		),
		Limit: limit,
		Sort:  SortNewest,
		Depth: 2,
	}
	return s.find(ctx, op, q).Docs()
}

// SearchPosts matches term against SearchFields in published posts.
func (s *Service) SearchPosts(ctx context.Context, term string, limit int) []cms.Post {
	term = strings.TrimSpace(term)
	if term == "" {
		return []cms.Post{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := cms.Query{
		Where: cms.AllOf(
			cms.Equals("status", cms.StatusPublished),
			cms.AnyOf(searchClauses(term)...),
		),
		Limit: limit,
		Sort:  SortNewest,
		Depth: 2,
	}
	return s.find(ctx, "search posts", q).Docs()
}

// Categories returns all categories, or none if the store fails.
func (s *Service) Categories(ctx context.Context) []cms.Category {
	cats, err := s.store.FindCategories(ctx)
	if err != nil {
		s.absorb("categories", err)
		return []cms.Category{}
	}
	return cats
}

// Tags returns all tags, or none if the store fails.
func (s *Service) Tags(ctx context.Context) []cms.Tag {
	tags, err := s.store.FindTags(ctx)
	if err != nil {
		s.absorb("tags", err)
		return []cms.Tag{}
	}
	return tags
}

func (s *Service) find(ctx context.Context, op string, q cms.Query) Outcome {
	page, err := s.store.FindPosts(ctx, q)
	if err == nil && page == nil {
		err = errors.New("store returned no page")
	}
	if err != nil {
		s.absorb(op, err)
	}
	return Outcome{Page: page, Err: err}
}

func (s *Service) absorb(op string, err error) {
	metrics.StoreFallbacks.WithLabelValues(op).Inc()
	s.log.Error("store query failed", "operation", op, "error", err)
}

// ReadingTime returns the stored reading time in minutes, or one derived
// from the post's content.
func ReadingTime(p *cms.Post) int {
	if p == nil {
		return 1
	}
	if p.ReadingTime > 0 {
		return p.ReadingTime
	}
	doc, err := richtext.Decode(p.Content)
	if err != nil {
		return 1
	}
	words := richtext.WordCount(doc.Root)
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

type storeResolver struct {
	store Store
}

func (r storeResolver) ResolveCategory(ctx context.Context, slug string) (string, bool, error) {
	cat, err := r.store.CategoryBySlug(ctx, slug)
	return lookupResult(cat, err, func(c *cms.Category) string { return c.ID })
}

func (r storeResolver) ResolveTag(ctx context.Context, slug string) (string, bool, error) {
	tag, err := r.store.TagBySlug(ctx, slug)
	return lookupResult(tag, err, func(t *cms.Tag) string { return t.ID })
}

func lookupResult[T any](v *T, err error, id func(*T) string) (string, bool, error) {
	switch {
	case errors.Is(err, cms.ErrNotFound):
		return "", false, nil
	case err != nil:
		return "", false, err
	case v == nil:
		return "", false, nil
	}
	return id(v), true, nil
}

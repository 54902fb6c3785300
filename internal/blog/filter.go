package blog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/techblog/internal/cms"
)

// DefaultPageSize is the number of posts on one feed page.
const DefaultPageSize = 10

// SortNewest orders posts by publish date, most recent first.
const SortNewest = "-publishedDate"

// SearchFields are matched by free-text search.
var SearchFields = []string{"title", "excerpt", "content", "seo.keywords"}

// Params are the raw feed filters as they arrive in a URL query.
type Params struct {
	Category string
	Tag      string
	Search   string
	Page     string
}

// Filter is a fully resolved feed query. It is built once per request
// and only read afterwards.
type Filter struct {
	Status   string
	Category string // category id
	Tag      string // tag id
	Search   string
	Page     int
	PageSize int
	Sort     string
}

// Query translates the filter into the store's query form.
func (f Filter) Query() cms.Query {
	w := cms.Where{Conditions: []cms.Condition{
		{Field: "status", Op: cms.OpEquals, Value: f.Status},
	}}
	if f.Category != "" {
		w.Conditions = append(w.Conditions, cms.Condition{Field: "category", Op: cms.OpEquals, Value: f.Category})
	}
	if f.Tag != "" {
		w.Conditions = append(w.Conditions, cms.Condition{Field: "tags", Op: cms.OpIn, List: []string{f.Tag}})
	}
	if f.Search != "" {
		w.Or = searchClauses(f.Search)
	}
	return cms.Query{
		Where: w,
		Limit: f.PageSize,
		Page:  f.Page,
		Sort:  f.Sort,
		Depth: 2,
	}
}

func searchClauses(term string) []cms.Where {
	clauses := make([]cms.Where, 0, len(SearchFields))
	for _, field := range SearchFields {
		clauses = append(clauses, cms.Contains(field, term))
	}
	return clauses
}

// Resolver maps human-readable slugs to store identifiers.
type Resolver interface {
	ResolveCategory(ctx context.Context, slug string) (id string, ok bool, err error)
	ResolveTag(ctx context.Context, slug string) (id string, ok bool, err error)
}

// Builder turns Params into a Filter.
type Builder struct {
	Resolver Resolver
	PageSize int
}

// Build resolves category then tag, in that order. A slug that does not
// resolve is used verbatim as an identifier. A failed lookup is returned
// as an error and no filter is built.
func (b *Builder) Build(ctx context.Context, p Params) (Filter, error) {
	f := Filter{
		Status:   cms.StatusPublished,
		Page:     parsePage(p.Page),
		PageSize: b.PageSize,
		Sort:     SortNewest,
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	var err error
	if p.Category != "" {
		if f.Category, err = resolveOr(ctx, b.resolveCategory, p.Category); err != nil {
			return Filter{}, fmt.Errorf("resolve category %q: %w", p.Category, err)
		}
	}
	if p.Tag != "" {
		if f.Tag, err = resolveOr(ctx, b.resolveTag, p.Tag); err != nil {
			return Filter{}, fmt.Errorf("resolve tag %q: %w", p.Tag, err)
		}
	}
	f.Search = strings.TrimSpace(p.Search)
	return f, nil
}

func (b *Builder) resolveCategory(ctx context.Context, slug string) (string, bool, error) {
	if b.Resolver == nil {
		return "", false, nil
	}
	return b.Resolver.ResolveCategory(ctx, slug)
}

func (b *Builder) resolveTag(ctx context.Context, slug string) (string, bool, error) {
	if b.Resolver == nil {
		return "", false, nil
	}
	return b.Resolver.ResolveTag(ctx, slug)
}

func resolveOr(ctx context.Context, resolve func(context.Context, string) (string, bool, error), raw string) (string, error) {
	id, ok, err := resolve(ctx, raw)
	if err != nil {
		return "", err
	}
	if !ok || id == "" {
		return raw, nil
	}
	return id, nil
}

func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

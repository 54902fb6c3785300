package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a document in the posts collection as returned at depth 2.
type Post struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt"`
	Content       json.RawMessage `json:"content,omitempty"`
	Status        string          `json:"status"`
	PublishedDate *time.Time      `json:"publishedDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Category      *Ref[Category]  `json:"category,omitempty"`
	Tags          []Ref[Tag]      `json:"tags,omitempty"`
	FeaturedImage *Media          `json:"featuredImage,omitempty"`
	ReadingTime   int             `json:"readingTime,omitempty"`
	Author        *Author         `json:"author,omitempty"`
	SEO           SEO             `json:"seo"`
}

// Published reports whether the post is visible to anonymous readers.
func (p *Post) Published() bool {
	return p != nil && p.Status == StatusPublished
}

// Date is the publish date, falling back to creation time.
func (p *Post) Date() time.Time {
	if p.PublishedDate != nil && !p.PublishedDate.IsZero() {
		return *p.PublishedDate
	}
	return p.CreatedAt
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

type Media struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Author struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
}

// Ref is a relationship field. Depending on query depth the CMS returns
// either the bare id or the populated document.
type Ref[T any] struct {
	ID  string
	Doc *T
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.ID)
	case '{':
		var doc T
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		var id struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		r.Doc = &doc
		return r.UnmarshalJSON(id.ID)
	default:
		return decodeID(b, &r.ID)
	}
}

// Value returns the populated document, or nil when only the id is known.
func (r *Ref[T]) Value() *T {
	if r == nil {
		return nil
	}
	return r.Doc
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// decodeID reads a document id, which is a string on document databases
// and a number on SQL-backed adapters.
func decodeID(b []byte, id *string) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, id)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("document id %s: %w", b, err)
	}
	*id = n.String()
	return nil
}

func (p *Post) UnmarshalJSON(b []byte) error {
	type plain Post
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Post(aux.plain)
	return decodeID(aux.ID, &p.ID)
}

func (c *Category) UnmarshalJSON(b []byte) error {
	type plain Category
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Category(aux.plain)
	return decodeID(aux.ID, &c.ID)
}

func (t *Tag) UnmarshalJSON(b []byte) error {
	type plain Tag
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Tag(aux.plain)
	return decodeID(aux.ID, &t.ID)
}

func (m *Media) UnmarshalJSON(b []byte) error {
	type plain Media
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*m = Media(aux.plain)
	return decodeID(aux.ID, &m.ID)
}

func (a *Author) UnmarshalJSON(b []byte) error {
	type plain Author
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Author(aux.plain)
	return decodeID(aux.ID, &a.ID)
}

// PostPage is a paginated find result.
type PostPage struct {
	Docs        []Post `json:"docs"`
	TotalDocs   int    `json:"totalDocs"`
	Limit       int    `json:"limit"`
	TotalPages  int    `json:"totalPages"`
	Page        int    `json:"page"`
	HasPrevPage bool   `json:"hasPrevPage"`
	HasNextPage bool   `json:"hasNextPage"`
}

type listResponse[T any] struct {
	Docs      []T `json:"docs"`
	TotalDocs int `json:"totalDocs"`
}

// NewPost is the body for creating a post.
type NewPost struct {
	Title         string          `json:"title"`
	Slug          string          `json:"slug,omitempty"`
	Excerpt       string          `json:"excerpt,omitempty"`
	Content       json.RawMessage `json:"content"`
	Status        string          `json:"status"`
	PublishedDate *time.Time      `json:"publishedDate,omitempty"`
	Category      string          `json:"category,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	SEO           *SEO            `json:"seo,omitempty"`
}

package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when a document lookup matches nothing.
var ErrNotFound = errors.New("cms: not found")

// StatusError is a non-2xx response from the CMS.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// Client communicates with the CMS REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Stats, when set, records the latency of every call.
	Stats *Stats
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FindPosts runs a find query against the posts collection.
func (c *Client) FindPosts(ctx context.Context, q Query) (*PostPage, error) {
	var page PostPage
	if err := c.get(ctx, "find posts", "/posts", q.Values(), &page); err != nil {
		return nil, err
	}
	if page.Docs == nil {
		page.Docs = []Post{}
	}
	return &page, nil
}

// FindPostByID fetches one post with relationships populated.
func (c *Client) FindPostByID(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	v := url.Values{}
	v.Set("depth", "2")
	var post Post
	if err := c.get(ctx, "find post", "/posts/"+url.PathEscape(id), v, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// FindCategories returns every category sorted by name.
func (c *Client) FindCategories(ctx context.Context) ([]Category, error) {
	var resp listResponse[Category]
	q := Query{All: true, Sort: "name"}
	if err := c.get(ctx, "find categories", "/categories", q.Values(), &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

// FindTags returns every tag sorted by name.
func (c *Client) FindTags(ctx context.Context) ([]Tag, error) {
	var resp listResponse[Tag]
	q := Query{All: true, Sort: "name"}
	if err := c.get(ctx, "find tags", "/tags", q.Values(), &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

// CategoryBySlug returns the category with the given slug or ErrNotFound.
func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var resp listResponse[Category]
	q := Query{Where: Equals("slug", slug), Limit: 1}
	if err := c.get(ctx, "category by slug", "/categories", q.Values(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Docs) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Docs[0], nil
}

// TagBySlug returns the tag with the given slug or ErrNotFound.
func (c *Client) TagBySlug(ctx context.Context, slug string) (*Tag, error) {
	var resp listResponse[Tag]
	q := Query{Where: Equals("slug", slug), Limit: 1}
	if err := c.get(ctx, "tag by slug", "/tags", q.Values(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Docs) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Docs[0], nil
}

// CreatePost creates a post and returns the stored document.
func (c *Client) CreatePost(ctx context.Context, p NewPost) (*Post, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}
	var resp struct {
		Doc Post `json:"doc"`
	}
	if err := c.do(ctx, "create post", http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp.Doc, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) get(ctx context.Context, op, path string, v url.Values, out any) error {
	u := c.baseURL + path
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return c.do(ctx, op, http.MethodGet, u, nil, out)
}

func (c *Client) do(ctx context.Context, op, method, u string, body io.Reader, out any) (err error) {
	start := time.Now()
	defer func() { c.Stats.Record(op, time.Since(start), err) }()

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "users API-Key "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

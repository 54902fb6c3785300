package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/metrics"
	"github.com/dgallion1/techblog/internal/richtext"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := blog.Params{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		Page:     q.Get("page"),
	}

	ctx := r.Context()
	result := s.blog.ListPosts(ctx, params)
	categories := s.blog.Categories(ctx)

	published := 0
	for i := range result.Docs {
		if result.Docs[i].Published() {
			published++
		}
	}

	heading := "Latest Articles"
	switch {
	case params.Category != "":
		heading = params.Category + " Posts"
	case params.Tag != "":
		heading = "#" + params.Tag
	case strings.TrimSpace(params.Search) != "":
		heading = fmt.Sprintf("Results for %q", strings.TrimSpace(params.Search))
	}

	s.render(w, http.StatusOK, "home", homePage{
		layout:     s.layout(""),
		Params:     params,
		Heading:    heading,
		Posts:      newPostCards(result.Docs),
		Categories: categories,
		Stats: blogStats{
			TotalPosts: result.TotalDocs,
			Categories: len(categories),
			Published:  published,
		},
		Pages:    pageLinks(params, result.Page, result.TotalPages),
		Filtered: params.Category != "" || params.Tag != "" || params.Search != "",
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	id, markdown := strings.CutSuffix(id, ".md")

	post, err := s.lookupPost(r, id)
	if err != nil {
		if !errors.Is(err, blog.ErrNotFound) {
			s.log.Error("post lookup failed", "id", id, "error", err)
		}
		s.handleNotFound(w, r)
		return
	}

	fragment, err := richtext.RenderDocument(post.Content)
	if err != nil {
		s.log.Warn("malformed post content", "post_id", post.ID, "error", err)
		metrics.DocumentRenders.WithLabelValues("malformed").Inc()
	}

	if markdown {
		s.writeMarkdown(w, post, fragment, err)
		return
	}

	page := postPage{
		layout:    s.layout(post.Title),
		Post:      newPostCard(post),
		Malformed: err != nil,
		Recent:    newPostCards(s.recentExcluding(r, post.ID)),
	}
	if err == nil {
		page.Content, err = s.renderer.Render(fragment)
		if err != nil {
			s.log.Error("render post content", "post_id", post.ID, "error", err)
			metrics.DocumentRenders.WithLabelValues("malformed").Inc()
			page.Malformed = true
		} else {
			metrics.DocumentRenders.WithLabelValues("ok").Inc()
		}
	}
	s.render(w, http.StatusOK, "post", page)
}

// lookupPost resolves id as a post id, then as a slug.
func (s *Server) lookupPost(r *http.Request, id string) (*cms.Post, error) {
	post, err := s.blog.GetPost(r.Context(), id)
	if errors.Is(err, blog.ErrNotFound) {
		return s.blog.GetPostBySlug(r.Context(), id)
	}
	return post, err
}

// recentExcluding returns up to cfg.RecentPosts newest posts other than id.
func (s *Server) recentExcluding(r *http.Request, id string) []cms.Post {
	limit := s.cfg.RecentPosts
	recent := s.blog.RecentPosts(r.Context(), limit+1)
	out := make([]cms.Post, 0, limit)
	for _, p := range recent {
		if p.ID == id {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out
}

func (s *Server) writeMarkdown(w http.ResponseWriter, post *cms.Post, fragment *richtext.Fragment, renderErr error) {
	if renderErr != nil {
		http.Error(w, "post content is not a valid document", http.StatusUnprocessableEntity)
		return
	}
	body, err := richtext.Markdown(fragment)
	if err != nil {
		s.log.Error("markdown export failed", "post_id", post.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.DocumentRenders.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprintf(w, "# %s\n\n", post.Title)
	w.Write([]byte(body))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about", s.layout("About"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound", s.layout("Not Found"))
}

func (s *Server) layout(title string) layout {
	return layout{SiteTitle: s.cfg.SiteTitle, PageTitle: title}
}

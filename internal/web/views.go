package web

import (
	"embed"
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"swatch": swatch,
}).ParseFS(templateFS, "templates/*.tmpl"))

const dateLayout = "January 2, 2006"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// swatch is the inline style for a category color. Anything but a hex
// color is dropped.
func swatch(color string) template.CSS {
	if !hexColor.MatchString(color) {
		return ""
	}
	return template.CSS("background-color: " + color)
}

type layout struct {
	SiteTitle string
	PageTitle string
}

type postCard struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	Date        string
	ReadingTime int
	Author      string
	Category    *cms.Category
	Tags        []cms.Tag
	Image       *cms.Media
}

func newPostCard(p *cms.Post) postCard {
	card := postCard{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Date:        p.Date().Format(dateLayout),
		ReadingTime: blog.ReadingTime(p),
		Author:      authorName(p.Author),
		Category:    p.Category.Value(),
		Image:       p.FeaturedImage,
	}
	for i := range p.Tags {
		if t := p.Tags[i].Value(); t != nil {
			card.Tags = append(card.Tags, *t)
		}
	}
	return card
}

func newPostCards(posts []cms.Post) []postCard {
	cards := make([]postCard, 0, len(posts))
	for i := range posts {
		cards = append(cards, newPostCard(&posts[i]))
	}
	return cards
}

// authorName is the local part of the author's email.
func authorName(a *cms.Author) string {
	if a == nil {
		return "Anonymous"
	}
	name, _, _ := strings.Cut(a.Email, "@")
	if name == "" {
		return "Anonymous"
	}
	return name
}

type pageLink struct {
	Number  int
	Href    string
	Current bool
}

// pageLinks builds one link per page, keeping the active filters.
func pageLinks(p blog.Params, current, total int) []pageLink {
	if total <= 1 {
		return nil
	}
	links := make([]pageLink, 0, total)
	for n := 1; n <= total; n++ {
		v := url.Values{}
		v.Set("page", strconv.Itoa(n))
		if p.Category != "" {
			v.Set("category", p.Category)
		}
		if p.Tag != "" {
			v.Set("tag", p.Tag)
		}
		if p.Search != "" {
			v.Set("search", p.Search)
		}
		links = append(links, pageLink{Number: n, Href: "/?" + v.Encode(), Current: n == current})
	}
	return links
}

type blogStats struct {
	TotalPosts int
	Categories int
	Published  int
}

type homePage struct {
	layout
	Params     blog.Params
	Heading    string
	Posts      []postCard
	Categories []cms.Category
	Stats      blogStats
	Pages      []pageLink
	Filtered   bool
}

type postPage struct {
	layout
	Post      postCard
	Content   template.HTML
	Malformed bool
	Recent    []postCard
}

// Package mcptools exposes blog queries as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/richtext"
)

const Version = "0.1.0"

// Blog is the read side the tools query.
type Blog interface {
	ListPosts(ctx context.Context, p blog.Params) blog.Result
	GetPost(ctx context.Context, id string) (*cms.Post, error)
}

type SearchPostsRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"` // category slug or id
	Tag      string `json:"tag"`      // tag slug or id
	Page     int    `json:"page"`
}

type GetPostRequest struct {
	ID string `json:"id"`
}

type GetPostResponse struct {
	Post        *cms.Post `json:"post"`
	Markdown    string    `json:"markdown"`
	ReadingTime int       `json:"readingTime"`
	Malformed   bool      `json:"malformed,omitempty"`
}

// NewServer creates an MCP server with the searchPosts and getPost tools.
func NewServer(b Blog) *server.MCPServer {
	s := server.NewMCPServer(
		"TechBlog MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("searchPosts",
		mcp.WithDescription("List published blog posts, optionally filtered by search text, category, or tag"),
		mcp.WithString("search",
			mcp.Description("Text matched against title, excerpt, content, and SEO keywords"),
		),
		mcp.WithString("category",
			mcp.Description("Category slug (e.g. 'tutorials')"),
		),
		mcp.WithString("tag",
			mcp.Description("Tag slug (e.g. 'go')"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based page number"),
		),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(searchPostsHandler(b)))

	getPostTool := mcp.NewTool("getPost",
		mcp.WithDescription("Get a published blog post with its body converted to markdown"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The post id"),
		),
	)
	s.AddTool(getPostTool, mcp.NewTypedToolHandler(getPostHandler(b)))

	return s
}

func searchPostsHandler(b Blog) func(ctx context.Context, request mcp.CallToolRequest, args SearchPostsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchPostsRequest) (*mcp.CallToolResult, error) {
		p := blog.Params{
			Search:   args.Search,
			Category: args.Category,
			Tag:      args.Tag,
		}
		if args.Page > 0 {
			p.Page = strconv.Itoa(args.Page)
		}
		return jsonResult(b.ListPosts(ctx, p))
	}
}

func getPostHandler(b Blog) func(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		post, err := b.GetPost(ctx, args.ID)
		if errors.Is(err, blog.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("post %q not found", args.ID)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get post: %v", err)), nil
		}

		response := GetPostResponse{Post: post, ReadingTime: blog.ReadingTime(post)}
		fragment, err := richtext.RenderDocument(post.Content)
		if err != nil {
			response.Malformed = true
		} else if response.Markdown, err = richtext.Markdown(fragment); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to convert post: %v", err)), nil
		}
		return jsonResult(response)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

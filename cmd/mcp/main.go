package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/config"
	"github.com/dgallion1/techblog/internal/mcptools"
)

func main() {
	// stdout carries the stdio protocol, so logs go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := cms.NewClient(cfg.CMSURL, cfg.CMSAPIKey, cfg.CMSTimeout)
	defer client.Close()
	s := mcptools.NewServer(blog.NewService(client, log, cfg.PageSize))

	if cfg.MCPAddr != "" {
		log.Info("starting MCP server", "transport", "http", "addr", cfg.MCPAddr)
		httpServer := server.NewStreamableHTTPServer(s)
		if err := httpServer.Start(cfg.MCPAddr); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	log.Info("starting MCP server", "transport", "stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

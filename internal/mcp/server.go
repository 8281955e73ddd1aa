// Package mcp exposes contacts, chat, lore and the forum as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/app"
)

type Server struct {
	app    *app.App
	logger *zap.Logger
	mcp    *sdk.Server
}

func NewServer(a *app.App, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		app:    a,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "grimoire",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting")
	return s.mcp.Run(ctx, transport)
}

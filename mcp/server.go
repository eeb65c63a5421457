// Package mcp exposes the repair assistant backend as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/homefix/homefix/api"
)

const serverInstructions = "These tools talk to a home repair assistant backend. " +
	"Use chat for free-form repair questions and recommend to list supplies for a known problem. " +
	"Use analyze_image with a local file path (or base64 image data) to diagnose a photo; " +
	"pass a short note describing the problem when the user gave one. " +
	"If calls fail with connection errors, call discover to search the network for the backend."

// Backend is the API surface the tools call.
type Backend interface {
	Chat(ctx context.Context, message string) (string, error)
	Recommend(ctx context.Context, problem, location string) (*api.RecommendResponse, error)
	Analyze(ctx context.Context, imageBase64 string) (*api.AnalyzeResponse, error)
	AnalyzeWithText(ctx context.Context, imageBase64, message string) (*api.AnalyzeResponse, error)
	ServerInfo(ctx context.Context) (*api.ServerInfo, error)
}

// Resolver reports and re-detects the backend address.
type Resolver interface {
	BaseURL() string
	Detect(ctx context.Context) (string, bool, error)
}

// HomefixMCPServer wraps an MCP server bound to one backend.
type HomefixMCPServer struct {
	server   *mcpserver.MCPServer
	backend  Backend
	resolver Resolver
}

// NewHomefixMCPServer creates the server and registers every tool.
func NewHomefixMCPServer(backend Backend, resolver Resolver, version string) *HomefixMCPServer {
	s := mcpserver.NewMCPServer(
		"homefix",
		version,
		mcpserver.WithInstructions(serverInstructions),
		mcpserver.WithToolCapabilities(false),
	)

	h := &HomefixMCPServer{
		server:   s,
		backend:  backend,
		resolver: resolver,
	}
	h.registerAssistantTools()
	h.registerServerTools()

	Log("server created: base URL %s", resolver.BaseURL())
	return h
}

// registerAssistantTools registers the tools that call the assistant.
func (h *HomefixMCPServer) registerAssistantTools() {
	chat := gomcp.NewTool("chat",
		gomcp.WithDescription(
			"Ask the home repair assistant a question and get its answer in Korean. "+
				"Describe the problem and where it is, e.g. '욕실 실리콘에 곰팡이가 생겼어요'.",
		),
		gomcp.WithString("message",
			gomcp.Required(),
			gomcp.Description("The question or problem description."),
		),
	)
	h.server.AddTool(chat, handleChat(h.backend))

	recommend := gomcp.NewTool("recommend",
		gomcp.WithDescription(
			"List recommended supplies and products for a repair problem, grouped by purpose, "+
				"with price, rating and link when known.",
		),
		gomcp.WithString("problem",
			gomcp.Required(),
			gomcp.Description("The problem to fix."),
		),
		gomcp.WithString("location",
			gomcp.Description("Where the problem is, e.g. bathroom ceiling. Optional."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
	h.server.AddTool(recommend, handleRecommend(h.backend))

	analyze := gomcp.NewTool("analyze_image",
		gomcp.WithDescription(
			"Diagnose a photo of a home repair problem. Returns the problem, its location and a "+
				"suggested solution. Give either a local file path or base64 image data.",
		),
		gomcp.WithString("path",
			gomcp.Description("Path to a JPEG, PNG, GIF, BMP or WebP file on this machine."),
		),
		gomcp.WithString("image_base64",
			gomcp.Description("Base64 encoded image data, used when path is empty."),
		),
		gomcp.WithString("note",
			gomcp.Description("Optional description of the problem sent with the photo."),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
	h.server.AddTool(analyze, handleAnalyzeImage(h.backend))
}

// registerServerTools registers the connection tools.
func (h *HomefixMCPServer) registerServerTools() {
	serverInfo := gomcp.NewTool("server_info",
		gomcp.WithDescription("Show which backend address is in use and whether it answers."),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
	h.server.AddTool(serverInfo, handleServerInfo(h.backend, h.resolver))

	discover := gomcp.NewTool("discover",
		gomcp.WithDescription(
			"Search the configured candidate hosts for a live backend and switch to the first one "+
				"that answers. The current address is kept when nothing answers.",
		),
	)
	h.server.AddTool(discover, handleDiscover(h.resolver))
}

// Serve starts the MCP server using stdio transport.
func (h *HomefixMCPServer) Serve() error {
	return mcpserver.ServeStdio(h.server)
}

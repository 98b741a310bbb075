// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the document vault as tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/munin/internal/docservice"
)

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all vault tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a JSON document from the vault. Documents missing locally "+
			"are restored from the application bundle when available."),
		mcp.WithString("directory", mcp.Description("Directory name (empty for the default directory)")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name without extension")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Save a JSON document into the vault, creating the directory if "+
			"needed and overwriting any previous version. Content must be a single valid JSON value."),
		mcp.WithString("directory", mcp.Description("Directory name (empty for the default directory)")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name without extension")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The JSON document body")),
	), s.saveDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List cataloged documents, optionally scoped to one directory."),
		mcp.WithString("directory", mcp.Description("Optional directory to list (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("Delete a document from the vault."),
		mcp.WithString("directory", mcp.Description("Directory name (empty for the default directory)")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name without extension")),
	), s.deleteDocument)

	s.mcp.AddTool(mcp.NewTool("restore_document",
		mcp.WithDescription("Restore a document from the application bundle, replacing any "+
			"local version."),
		mcp.WithString("directory", mcp.Description("Directory name (empty for the default directory)")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name without extension")),
	), s.restoreDocument)

	// Resource: vault layout contract.
	s.mcp.AddResource(
		mcp.NewResource("munin://storage-layout", "Vault Storage Layout",
			mcp.WithResourceDescription("How documents are laid out and named inside the vault."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readStorageLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := req.GetString("directory", "")

	doc, err := s.svc.Get(ctx, dir, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return mcp.NewToolResultText(string(doc.Content)), nil
}

func (s *Server) saveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := req.GetString("directory", "")

	doc, err := s.svc.Put(ctx, dir, name, json.RawMessage(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s/%s", doc.Directory, doc.Name)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("directory", "")

	items, _, err := s.svc.List(ctx, dir, 500, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no documents"), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := req.GetString("directory", "")

	if err := s.svc.Delete(ctx, dir, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", name)), nil
}

func (s *Server) restoreDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir := req.GetString("directory", "")

	doc, err := s.svc.Restore(ctx, dir, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("restored: %s/%s", doc.Directory, doc.Name)), nil
}

func (s *Server) readStorageLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "munin://storage-layout",
			MIMEType: "text/markdown",
			Text:     StorageLayoutContract,
		},
	}, nil
}

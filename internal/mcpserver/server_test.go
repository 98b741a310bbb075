package mcpserver

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/munin/internal/catalog"
	"github.com/starford/munin/internal/docservice"
	"github.com/starford/munin/internal/docstore"
)

func testServer(t *testing.T, opts ...docstore.Option) *Server {
	t.Helper()

	opts = append([]docstore.Option{docstore.WithRoot(t.TempDir())}, opts...)
	store := docstore.New(opts...)

	dbFile, err := os.CreateTemp("", "munin-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return New(docservice.New(store, db))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler functions
	// are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "save_document":
		result, err = srv.saveDocument(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "delete_document":
		result, err = srv.deleteDocument(ctx, req)
	case "restore_document":
		result, err = srv.restoreDocument(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndReadDocument(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "save_document", map[string]any{
		"directory": "profiles",
		"name":      "alice",
		"content":   `{"first_name":"A"}`,
	})
	if text := resultText(r); text != "saved: profiles/alice" {
		t.Errorf("save result = %q", text)
	}

	r = callTool(t, srv, "read_document", map[string]any{
		"directory": "profiles",
		"name":      "alice",
	})
	if text := resultText(r); text != `{"first_name":"A"}` {
		t.Errorf("read result = %q", text)
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "save_document", map[string]any{
		"name":    "bad",
		"content": `{"broken`,
	})
	if !r.IsError {
		t.Error("expected error for invalid JSON")
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_document", map[string]any{"name": "nope"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestListDocuments(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "save_document", map[string]any{"name": "a", "content": `{"n":1}`})
	_ = callTool(t, srv, "save_document", map[string]any{"name": "b", "content": `{"n":2}`})

	r := callTool(t, srv, "list_documents", map[string]any{})
	if text := resultText(r); text == "" || text == "no documents" {
		t.Errorf("list result = %q", text)
	}
}

func TestDeleteDocument(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "save_document", map[string]any{"name": "doc", "content": `{}`})

	r := callTool(t, srv, "delete_document", map[string]any{"name": "doc"})
	if text := resultText(r); text != "deleted: doc" {
		t.Errorf("delete result = %q", text)
	}

	r = callTool(t, srv, "delete_document", map[string]any{"name": "doc"})
	if !r.IsError {
		t.Error("expected error deleting twice")
	}
}

func TestRestoreDocument(t *testing.T) {
	bundle := docstore.NewFSBundle(fstest.MapFS{
		"Seed.json": {Data: []byte(`{"seeded":true}`)},
	})
	srv := testServer(t, docstore.WithBundle(bundle))

	r := callTool(t, srv, "restore_document", map[string]any{"name": "Seed"})
	if r.IsError {
		t.Fatalf("restore failed: %s", resultText(r))
	}

	r = callTool(t, srv, "restore_document", map[string]any{"name": "Missing"})
	if !r.IsError {
		t.Error("expected error restoring missing resource")
	}
}

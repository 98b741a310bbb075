package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/munin/internal"
	"github.com/starford/munin/internal/docstore"
	pkgconfig "github.com/starford/munin/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

// vaultStore builds a store for the direct vault commands, which talk to the
// filesystem without the catalog or any server.
func vaultStore(cmd *cli.Command) (*docstore.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.NewStore(cfg), nil
}

func putDocument(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: put [--dir DIR] NAME [FILE]")
	}

	var body []byte
	var err error
	if file := cmd.Args().Get(1); file != "" && file != "-" {
		body, err = os.ReadFile(file)
	} else {
		body, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read document body: %w", err)
	}

	if !json.Valid(body) {
		return fmt.Errorf("body is not valid JSON")
	}

	store, err := vaultStore(cmd)
	if err != nil {
		return err
	}

	path, err := store.Save(dirFlag(cmd), name, json.RawMessage(body), nil)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func getDocument(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: get [--dir DIR] NAME")
	}

	store, err := vaultStore(cmd)
	if err != nil {
		return err
	}

	var doc json.RawMessage
	if err := store.Load(dirFlag(cmd), name, &doc, nil); err != nil {
		return err
	}
	fmt.Println(string(doc))
	return nil
}

func removeDocument(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: rm [--dir DIR] NAME")
	}

	store, err := vaultStore(cmd)
	if err != nil {
		return err
	}
	return store.DeleteFile(dirFlag(cmd), name)
}

func removeDirectory(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: rmdir DIR")
	}

	store, err := vaultStore(cmd)
	if err != nil {
		return err
	}
	return store.DeleteDirectory(docstore.Named(name))
}

func listDocuments(ctx context.Context, cmd *cli.Command) error {
	store, err := vaultStore(cmd)
	if err != nil {
		return err
	}

	var entries []docstore.Entry
	if dir := cmd.String("dir"); dir != "" {
		entries, err = store.List(docstore.Named(dir))
	} else {
		entries, err = store.ListAll()
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s/%s\t%d\t%s\n", e.Directory, e.Name, e.Size, e.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func dirFlag(cmd *cli.Command) docstore.Dir {
	if dir := cmd.String("dir"); dir != "" {
		return docstore.Named(dir)
	}
	return docstore.Default
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
	dirCmdFlag := &cli.StringFlag{
		Name:  "dir",
		Usage: "Document directory (empty for the default directory)",
	}

	cmd := &cli.Command{
		Name:   "munin",
		Usage:  "JSON document vault with a REST API, SQLite catalog, and MCP integration",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server and file watcher",
				Action: serve,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Start the MCP server on stdin/stdout",
				Action: serveMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:      "put",
				Usage:     "Save a JSON document from FILE (or stdin)",
				ArgsUsage: "NAME [FILE]",
				Action:    putDocument,
				Flags:     []cli.Flag{configFlag, dirCmdFlag},
			},
			{
				Name:      "get",
				Usage:     "Print a document to stdout",
				ArgsUsage: "NAME",
				Action:    getDocument,
				Flags:     []cli.Flag{configFlag, dirCmdFlag},
			},
			{
				Name:      "rm",
				Usage:     "Delete a document",
				ArgsUsage: "NAME",
				Action:    removeDocument,
				Flags:     []cli.Flag{configFlag, dirCmdFlag},
			},
			{
				Name:      "rmdir",
				Usage:     "Delete a directory and all documents in it",
				ArgsUsage: "DIR",
				Action:    removeDirectory,
				Flags:     []cli.Flag{configFlag},
			},
			{
				Name:   "ls",
				Usage:  "List documents on disk",
				Action: listDocuments,
				Flags:  []cli.Flag{configFlag, dirCmdFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

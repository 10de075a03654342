package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags override the config file.
	if graph := cmd.String("graph"); graph != "" {
		cfg.Graph.Path = graph
	}
	if output := cmd.String("output"); output != "" {
		cfg.Output.Dir = output
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithServe(cmd.Bool("serve")),
		internal.WithWatch(cmd.Bool("watch")),
		internal.WithMCP(cmd.Bool("mcp")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "Logseq graph analyzer: element extraction, journal timeline reconstruction, and dangling link reports",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "graph",
				Aliases: []string{"g"},
				Usage:   "Path to the Logseq graph directory",
				Sources: cli.EnvVars("ANSUZ_GRAPH_PATH"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for report files",
				Sources: cli.EnvVars("ANSUZ_OUTPUT_DIR"),
			},
			&cli.BoolFlag{
				Name:  "serve",
				Usage: "Serve the analysis over HTTP with SSE updates",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-analyze when graph files change",
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Serve analysis tools over MCP stdio",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

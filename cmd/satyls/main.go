// Command satyls is a language server and source checker for SATySFi.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/lsp"
)

func main() {
	app := &cli.Command{
		Name:    "satyls",
		Usage:   "SATySFi language server and checker",
		Version: lsp.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("SATYLS_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a .satyls.yaml (default: nearest one above the working directory)",
				Sources: cli.EnvVars("SATYLS_CONFIG"),
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
			treeCommand(),
			symbolsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig returns the config named by --config, or the nearest one above
// the working directory. A missing config is not an error.
func loadConfig(cmd *cli.Command) (*satyls.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := satyls.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}

		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := satyls.LoadConfig(cwd)
	if errors.Is(err, satyls.ErrConfigNotFound) {
		return &satyls.Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// newLoggerConfig returns the stderr logger config. Stdout is reserved for
// the LSP stream. --debug wins over the configured level.
func newLoggerConfig(cmd *cli.Command, cfg *satyls.Config) (zap.Config, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cfg.Log.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			return config, fmt.Errorf("log.level: %w", err)
		}

		config.Level = zap.NewAtomicLevelAt(level)
	}

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config, nil
}

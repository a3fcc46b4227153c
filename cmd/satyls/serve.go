package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/lsp"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the language server over stdio",
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logConfig, err := newLoggerConfig(cmd, cfg)
	if err != nil {
		return err
	}

	stderrLogger, err := logConfig.Build()
	if err != nil {
		return err
	}

	defer func() {
		_ = stderrLogger.Sync()
	}()

	// Only use the found config as-is when the user named one; otherwise the
	// server looks it up again from the workspace root on initialize.
	var serverConfig *satyls.Config
	if cmd.String("config") != "" {
		serverConfig = cfg
	}

	return run(ctx, stderrLogger, logConfig.Level, os.Stdin, os.Stdout, serverConfig)
}

func run(ctx context.Context, stderrLogger *zap.Logger, level zapcore.LevelEnabler, in io.Reader, out io.Writer, cfg *satyls.Config) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, stderrLogger)

	// Logs go to stderr and to the editor's LSP log
	logger, stopClientLog := lsp.NewLSPLogger(client, stderrLogger.Core(), level)
	defer stopClientLog()

	logger.Info("Starting satyls", zap.String("version", lsp.Version))

	server := lsp.NewServer(client, logger, cfg)

	conn.Go(ctx, server.Handler())

	select {
	case <-conn.Done():
	case <-server.Exited():
		_ = conn.Close()
		<-conn.Done()

		return nil
	}

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logQueueSize = 100

// clientCore is a zapcore.Core that forwards entries to the client as
// window/logMessage notifications, so they show up in the editor's LSP log.
// Entries are queued and sent from a single goroutine; when the queue is
// full they are dropped rather than blocking the handler.
type clientCore struct {
	zapcore.LevelEnabler

	client  protocol.Client
	encoder zapcore.Encoder
	queue   chan *protocol.LogMessageParams
}

// NewLSPLogger returns a logger that writes to both the client and fallback.
// The returned stop function ends delivery to the client.
func NewLSPLogger(client protocol.Client, fallback zapcore.Core, level zapcore.LevelEnabler) (*zap.Logger, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	core := &clientCore{
		LevelEnabler: level,
		client:       client,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		queue: make(chan *protocol.LogMessageParams, logQueueSize),
	}

	go core.send(ctx)

	return zap.New(zapcore.NewTee(core, fallback)), cancel
}

func (c *clientCore) send(ctx context.Context) {
	for {
		select {
		case params := <-c.queue:
			// The client may already be gone.
			_ = c.client.LogMessage(ctx, params)
		case <-ctx.Done():
			return
		}
	}
}

// With implements zapcore.Core.
func (c *clientCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.encoder = c.encoder.Clone()

	for _, f := range fields {
		f.AddTo(clone.encoder)
	}

	return &clone
}

// Check implements zapcore.Core.
func (c *clientCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core.
func (c *clientCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}

	params := &protocol.LogMessageParams{
		Type:    messageType(entry.Level),
		Message: strings.TrimSpace(buf.String()),
	}
	buf.Free()

	select {
	case c.queue <- params:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *clientCore) Sync() error {
	return nil
}

func messageType(level zapcore.Level) protocol.MessageType {
	switch {
	case level >= zapcore.ErrorLevel:
		return protocol.MessageTypeError
	case level == zapcore.WarnLevel:
		return protocol.MessageTypeWarning
	case level == zapcore.InfoLevel:
		return protocol.MessageTypeInfo
	default:
		return protocol.MessageTypeLog
	}
}

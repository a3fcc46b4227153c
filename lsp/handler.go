package lsp

import (
	"context"
	"fmt"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Handler returns the jsonrpc2 handler serving s. Only the methods advertised
// in the initialize result are dispatched; other calls get a method-not-found
// error and other notifications are dropped.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.ReplyHandler(s.handle)
}

//nolint:cyclop,funlen // one case per method
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	defer s.traceHandler(req.Method())()

	if ctx.Err() != nil {
		return reply(ctx, nil, protocol.ErrRequestCancelled)
	}

	_, isCall := req.(*jsonrpc2.Call)

	if s.shutdown.Load() && isCall {
		return reply(ctx, nil, fmt.Errorf("%w: %s after shutdown", jsonrpc2.ErrInvalidRequest, req.Method()))
	}

	switch req.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.Initialize(ctx, &params)

		return reply(ctx, resp, err)

	case protocol.MethodInitialized:
		var params protocol.InitializedParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, nil, s.Initialized(ctx, &params))

	case protocol.MethodShutdown:
		return reply(ctx, nil, s.Shutdown(ctx))

	case protocol.MethodExit:
		return reply(ctx, nil, s.Exit(ctx))

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, nil, s.DidOpen(ctx, &params))

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, nil, s.DidChange(ctx, &params))

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		return reply(ctx, nil, s.DidClose(ctx, &params))

	case protocol.MethodTextDocumentCompletion:
		var params protocol.CompletionParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.Completion(ctx, &params)

		return reply(ctx, resp, err)

	case protocol.MethodTextDocumentDefinition:
		var params protocol.DefinitionParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.Definition(ctx, &params)

		return reply(ctx, resp, err)

	case protocol.MethodTextDocumentHover:
		var params protocol.HoverParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.Hover(ctx, &params)

		return reply(ctx, resp, err)

	case protocol.MethodTextDocumentDocumentSymbol:
		var params protocol.DocumentSymbolParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.DocumentSymbol(ctx, &params)

		return reply(ctx, resp, err)

	case protocol.MethodTextDocumentFoldingRange:
		var params protocol.FoldingRangeParams
		if err := decode(req, &params); err != nil {
			return reply(ctx, nil, err)
		}

		resp, err := s.FoldingRanges(ctx, &params)

		return reply(ctx, resp, err)
	}

	if !isCall {
		s.logger.Debug("Ignoring notification", zap.String("method", req.Method()))

		return reply(ctx, nil, nil)
	}

	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

// decode unmarshals the request params into v. Missing params leave v zero.
func decode(req jsonrpc2.Request, v any) error {
	if len(req.Params()) == 0 {
		return nil
	}

	if err := json.Unmarshal(req.Params(), v); err != nil {
		return fmt.Errorf("%w: %s: %w", jsonrpc2.ErrInvalidParams, req.Method(), err)
	}

	return nil
}

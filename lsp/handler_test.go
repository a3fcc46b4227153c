package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls/lsp"
)

type response struct {
	result any
	err    error
}

func dispatch(t *testing.T, server *lsp.Server, req jsonrpc2.Request) response {
	t.Helper()

	var resp response

	err := server.Handler()(context.Background(), func(_ context.Context, result any, err error) error {
		resp = response{result: result, err: err}

		return nil
	}, req)
	require.NoError(t, err)

	return resp
}

func call(t *testing.T, server *lsp.Server, id int32, method string, params any) response {
	t.Helper()

	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(id), method, params)
	require.NoError(t, err)

	return dispatch(t, server, req)
}

func notify(t *testing.T, server *lsp.Server, method string, params any) response {
	t.Helper()

	req, err := jsonrpc2.NewNotification(method, params)
	require.NoError(t, err)

	return dispatch(t, server, req)
}

func TestHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	server := lsp.NewServer(client, zap.NewNop(), nil)

	resp := call(t, server, 1, protocol.MethodInitialize, &protocol.InitializeParams{})
	require.NoError(t, resp.err)

	result, ok := resp.result.(*protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "satyls", result.ServerInfo.Name)

	require.NoError(t, notify(t, server, protocol.MethodInitialized, &protocol.InitializedParams{}).err)

	resp = notify(t, server, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: testDocument},
	})
	require.NoError(t, resp.err)
	require.NotNil(t, client.lastDiagnostics())

	resp = call(t, server, 2, protocol.MethodTextDocumentDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, resp.err)

	symbols, ok := resp.result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	assert.Len(t, symbols, 5)

	require.NoError(t, call(t, server, 3, protocol.MethodShutdown, nil).err)

	resp = call(t, server, 4, protocol.MethodTextDocumentHover, &protocol.HoverParams{
		TextDocumentPositionParams: position(10, 14),
	})
	require.ErrorIs(t, resp.err, jsonrpc2.ErrInvalidRequest)

	require.NoError(t, notify(t, server, protocol.MethodExit, nil).err)

	select {
	case <-server.Exited():
	default:
		t.Fatal("exit notification did not close Exited")
	}
}

func TestHandler_UnknownMethods(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp := call(t, server, 1, "textDocument/formatting", map[string]any{})
	require.ErrorIs(t, resp.err, jsonrpc2.ErrMethodNotFound)

	resp = notify(t, server, protocol.MethodCancelRequest, map[string]any{"id": 1})
	require.NoError(t, resp.err)
	assert.Nil(t, resp.result)
}

func TestHandler_InvalidParams(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp := call(t, server, 1, protocol.MethodTextDocumentHover, "not an object")
	require.ErrorIs(t, resp.err, jsonrpc2.ErrInvalidParams)
}

func TestHandler_CompletionCall(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testDocument)

	resp := call(t, server, 1, protocol.MethodTextDocumentCompletion, &protocol.CompletionParams{
		TextDocumentPositionParams: position(10, 9),
		Context: &protocol.CompletionContext{
			TriggerKind:      protocol.CompletionTriggerKindTriggerCharacter,
			TriggerCharacter: `\`,
		},
	})
	require.NoError(t, resp.err)

	list, ok := resp.result.(*protocol.CompletionList)
	require.True(t, ok)
	assert.Equal(t, []string{`\emph`}, labels(list.Items))
}

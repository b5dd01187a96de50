package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/ankibridge/internal/bridge"
	apperrors "github.com/vytor/ankibridge/internal/errors"
)

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) Call(ctx context.Context, method string, args bridge.Args) (any, error) {
	ret := m.Called(ctx, method, args)
	return ret.Get(0), ret.Error(1)
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestToolsRegistered(t *testing.T) {
	srv := New(new(mockCaller), "test")

	tools := srv.MCPServer().ListTools()

	for _, name := range []string{"anki_status", "anki_list_decks", "anki_new_cards", "anki_append_field"} {
		assert.Contains(t, tools, name)
	}
}

func TestStatus(t *testing.T) {
	caller := new(mockCaller)
	caller.On("Call", mock.Anything, bridge.MethodGetStatus, bridge.Args(nil)).
		Return(map[string]bool{"installed": true}, nil)
	srv := New(caller, "test")

	r, err := srv.status(context.Background(), request(nil))

	require.NoError(t, err)
	assert.False(t, r.IsError)
	assert.JSONEq(t, `{"installed":true}`, resultText(t, r))
}

func TestNewCards_PassesArguments(t *testing.T) {
	caller := new(mockCaller)
	args := map[string]any{"deckId": float64(1700000000001), "limit": float64(5)}
	caller.On("Call", mock.Anything, bridge.MethodGetTodayNewCards, bridge.Args(args)).Return([]any{}, nil)
	srv := New(caller, "test")

	r, err := srv.newCards(context.Background(), request(args))

	require.NoError(t, err)
	assert.False(t, r.IsError)
	caller.AssertExpectations(t)
}

func TestNewCards_RequiresDeck(t *testing.T) {
	caller := new(mockCaller)
	srv := New(caller, "test")

	r, err := srv.newCards(context.Background(), request(map[string]any{"limit": float64(5)}))

	require.NoError(t, err)
	assert.True(t, r.IsError)
	caller.AssertNumberOfCalls(t, "Call", 0)
}

func TestAppendField_RequiresIDs(t *testing.T) {
	caller := new(mockCaller)
	srv := New(caller, "test")

	r, err := srv.appendField(context.Background(), request(map[string]any{
		"noteId":         float64(1),
		"targetFieldKey": "Back",
		"generatedText":  "x",
	}))

	require.NoError(t, err)
	assert.True(t, r.IsError)
	caller.AssertNumberOfCalls(t, "Call", 0)
}

func TestAppendField_FailureTriple(t *testing.T) {
	caller := new(mockCaller)
	caller.On("Call", mock.Anything, bridge.MethodAppendToNoteField, mock.Anything).
		Return(nil, apperrors.NewNoteNotFoundError(1))
	srv := New(caller, "test")

	r, err := srv.appendField(context.Background(), request(map[string]any{
		"noteId":         float64(1),
		"modelId":        float64(2),
		"targetFieldKey": "Back",
		"generatedText":  "x",
	}))

	require.NoError(t, err)
	assert.True(t, r.IsError)
	var failure bridge.Failure
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &failure))
	assert.Equal(t, apperrors.ErrCodeNoteNotFound, failure.Code)
}

func TestUntypedFailureIsUnknown(t *testing.T) {
	caller := new(mockCaller)
	caller.On("Call", mock.Anything, bridge.MethodGetDecks, mock.Anything).Return(nil, errors.New("boom"))
	srv := New(caller, "test")

	r, err := srv.listDecks(context.Background(), request(nil))

	require.NoError(t, err)
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), apperrors.ErrCodeUnknown)
}

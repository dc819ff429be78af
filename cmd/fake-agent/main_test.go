// ABOUTME: E2E tests for the fake agent driven through the real agent client
// ABOUTME: Covers canned replies, per-session memory, clear-memory, and failure mode

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/sazon-chat/internal/agent"
	"github.com/2389/sazon-chat/internal/content"
)

func newTestServer(t *testing.T, fail bool) *agent.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(newAgent(0, fail, logger).routes())
	t.Cleanup(srv.Close)
	return agent.NewClient(srv.URL)
}

func TestFakeAgent_PozoleReplyCoversEveryBlockKind(t *testing.T) {
	client := newTestServer(t, false)

	reply, err := client.Chat(context.Background(), "¿Cómo hago pozole?", "session-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pozole Blanco"}, reply.SourcesUsed)

	kinds := map[content.Kind]bool{}
	for _, b := range content.Parse(reply.ResponseText) {
		kinds[b.Kind] = true
	}
	for _, k := range []content.Kind{
		content.KindHeading, content.KindNote, content.KindDivider, content.KindParagraph,
		content.KindBlank, content.KindVideo, content.KindImage,
	} {
		assert.True(t, kinds[k], "missing %s block", k)
	}
}

func TestFakeAgent_RemembersTurnsPerSession(t *testing.T) {
	client := newTestServer(t, false)
	ctx := context.Background()

	_, err := client.Chat(ctx, "hola", "session-a")
	require.NoError(t, err)
	second, err := client.Chat(ctx, "hola", "session-a")
	require.NoError(t, err)
	other, err := client.Chat(ctx, "hola", "session-b")
	require.NoError(t, err)

	assert.Contains(t, second.ResponseText, "turn 2")
	assert.Contains(t, other.ResponseText, "turn 1")
}

func TestFakeAgent_ClearMemoryResetsTurns(t *testing.T) {
	client := newTestServer(t, false)
	ctx := context.Background()

	_, err := client.Chat(ctx, "hola", "session-a")
	require.NoError(t, err)
	require.NoError(t, client.ResetMemory(ctx, "session-a"))

	reply, err := client.Chat(ctx, "hola", "session-a")
	require.NoError(t, err)
	assert.Contains(t, reply.ResponseText, "turn 1")
}

func TestFakeAgent_FailMode(t *testing.T) {
	client := newTestServer(t, true)
	ctx := context.Background()

	_, err := client.Chat(ctx, "pozole", "session-a")
	require.Error(t, err)
	assert.True(t, agent.IsServer(err))

	var serverErr *agent.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Contains(t, serverErr.Message, "recipe index unavailable")

	assert.True(t, agent.IsServer(client.ResetMemory(ctx, "session-a")))
}

func TestFakeAgent_RejectsEmptyMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(newAgent(0, false, logger).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/agent-chat", "application/json", strings.NewReader(`{"message":"  "}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReply_Fallthrough(t *testing.T) {
	text, sources := reply("what is mole?", 3)

	assert.Nil(t, sources)
	blocks := content.Parse(text)
	require.Len(t, blocks, 3)
	assert.Equal(t, content.Heading("Echo"), blocks[0])
	assert.Equal(t, content.Note("turn 3 of this session"), blocks[1])
	assert.Equal(t, content.Paragraph("You asked: what is mole?"), blocks[2])
}

// ABOUTME: Tests for the conversation controller state machine
// ABOUTME: Verifies submit guards, ordering, failure fallback, clear semantics, and scheduler lifecycle

package conversation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2389/sazon-chat/internal/agent"
	"github.com/2389/sazon-chat/internal/content"
	"github.com/2389/sazon-chat/internal/i18n"
	"github.com/2389/sazon-chat/internal/loading"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type chatCall struct {
	message   string
	sessionID string
}

// fakeAgent implements AgentClient for testing
type fakeAgent struct {
	mu        sync.Mutex
	reply     *agent.ChatReply
	chatErr   error
	resetErr  error
	gate      chan struct{} // when non-nil, Chat blocks until it is closed
	chatCalls []chatCall
	resets    []string
}

func (f *fakeAgent) Chat(ctx context.Context, message, sessionID string) (*agent.ChatReply, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, chatCall{message: message, sessionID: sessionID})
	gate, reply, err := f.gate, f.reply, f.chatErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return reply, err
}

func (f *fakeAgent) ResetMemory(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, sessionID)
	return f.resetErr
}

func (f *fakeAgent) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chatCalls)
}

type fixedSession string

func (s fixedSession) GetOrCreateID(ctx context.Context) string { return string(s) }

// syncBuffer is a goroutine-safe log sink
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	ctrl  *Controller
	agent *fakeAgent
	clock *loading.ManualClock
	sched *loading.Scheduler
	logs  *syncBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := loading.NewManualClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	sched := loading.NewScheduler(clock, loading.DefaultInterval, nil, logger)
	fa := &fakeAgent{reply: &agent.ChatReply{
		ResponseText: "**Pozole**\n*serves 8*\n---\n\nBoil the hominy.",
		SourcesUsed:  []string{"Pozole Blanco"},
	}}
	ctrl := New(fa, fixedSession("session-1-abcdefghi"), sched, logger)
	t.Cleanup(ctrl.Close)
	return &testEnv{ctrl: ctrl, agent: fa, clock: clock, sched: sched, logs: logs}
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	require.NotNil(t, done, "submit was not accepted")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reply never settled")
	}
}

func TestSubmit_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	wait(t, env.ctrl.Submit(context.Background(), "  How do I make pozole?  "))

	msgs := env.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "How do I make pozole?", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, []content.Block{
		content.Heading("Pozole"),
		content.Note("serves 8"),
		content.Divider(),
		content.Blank(),
		content.Paragraph("Boil the hominy."),
	}, msgs[1].Blocks)
	assert.Equal(t, []string{"Pozole Blanco"}, msgs[1].Sources)
	assert.Less(t, msgs[0].Ordinal, msgs[1].Ordinal)

	assert.Equal(t, StateIdle, env.ctrl.State())
	assert.NoError(t, env.ctrl.Err())
	assert.False(t, env.sched.Armed())
	assert.Zero(t, env.clock.Active())
}

func TestSubmit_SendsTrimmedTextAndSessionID(t *testing.T) {
	env := newTestEnv(t)

	wait(t, env.ctrl.Submit(context.Background(), "\thola\n"))

	require.Len(t, env.agent.chatCalls, 1)
	assert.Equal(t, chatCall{message: "hola", sessionID: "session-1-abcdefghi"}, env.agent.chatCalls[0])
}

func TestSubmit_BlankIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.Nil(t, env.ctrl.Submit(context.Background(), text))
	}

	assert.Zero(t, env.ctrl.Len())
	assert.Zero(t, env.agent.calls())
	assert.Equal(t, StateIdle, env.ctrl.State())
}

func TestSubmit_IgnoredWhileAwaiting(t *testing.T) {
	env := newTestEnv(t)
	env.agent.gate = make(chan struct{})

	done := env.ctrl.Submit(context.Background(), "first")
	require.NotNil(t, done)
	assert.Equal(t, StateAwaitingResponse, env.ctrl.State())
	assert.Equal(t, 1, env.ctrl.Len(), "user message visible before the reply")

	assert.Nil(t, env.ctrl.Submit(context.Background(), "second"))
	assert.Equal(t, 1, env.ctrl.Len())

	close(env.agent.gate)
	wait(t, done)

	assert.Equal(t, 1, env.agent.calls())
	assert.Equal(t, 2, env.ctrl.Len())
}

func TestSubmit_ConcurrentCallersOnlyOneAccepted(t *testing.T) {
	env := newTestEnv(t)
	env.agent.gate = make(chan struct{})

	var wg sync.WaitGroup
	accepted := make(chan (<-chan struct{}), 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if done := env.ctrl.Submit(context.Background(), "pozole"); done != nil {
				accepted <- done
			}
		}()
	}
	wg.Wait()
	close(accepted)

	require.Len(t, accepted, 1)
	close(env.agent.gate)
	wait(t, <-accepted)

	assert.Equal(t, 1, env.agent.calls())
	assert.Equal(t, 2, env.ctrl.Len())
}

func TestSubmit_FailureAppendsFallback(t *testing.T) {
	env := newTestEnv(t)
	env.agent.chatErr = &agent.TransportError{Op: "chat", Err: errors.New("connection refused")}

	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	msgs := env.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, i18n.Lookup(i18n.English).FallbackText, msgs[1].Content)
	assert.Equal(t, StateError, env.ctrl.State())
	assert.True(t, agent.IsTransport(env.ctrl.Err()))
	assert.False(t, env.sched.Armed())
	assert.Contains(t, env.logs.String(), "chat failed")
}

func TestSubmit_ServerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.agent.chatErr = &agent.ServerError{Op: "chat", StatusCode: 500}

	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	assert.Equal(t, StateError, env.ctrl.State())
	assert.True(t, agent.IsServer(env.ctrl.Err()))
}

func TestSubmit_FallbackIsLocalized(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.SetLocale(i18n.Spanish)
	env.agent.chatErr = errors.New("boom")

	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	assert.Equal(t, i18n.Lookup(i18n.Spanish).FallbackText, env.ctrl.Messages()[1].Content)
}

func TestSubmit_FromErrorClearsError(t *testing.T) {
	env := newTestEnv(t)
	env.agent.chatErr = errors.New("boom")
	wait(t, env.ctrl.Submit(context.Background(), "first"))
	require.Equal(t, StateError, env.ctrl.State())

	env.agent.mu.Lock()
	env.agent.chatErr = nil
	env.agent.gate = make(chan struct{})
	env.agent.mu.Unlock()

	done := env.ctrl.Submit(context.Background(), "second")
	require.NotNil(t, done)
	assert.NoError(t, env.ctrl.Err(), "error cleared on acceptance")
	assert.Equal(t, StateAwaitingResponse, env.ctrl.State())

	close(env.agent.gate)
	wait(t, done)

	assert.Equal(t, StateIdle, env.ctrl.State())
	assert.Equal(t, 4, env.ctrl.Len())
}

func TestSubmit_NilReplyTreatedAsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.agent.reply = nil

	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	msgs := env.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, []content.Block{content.Blank()}, msgs[1].Blocks)
}

func TestSubmit_LoadingPhrasesWhileAwaiting(t *testing.T) {
	env := newTestEnv(t)
	env.agent.gate = make(chan struct{})
	phrases := i18n.LoadingPhrases(i18n.English)

	done := env.ctrl.Submit(context.Background(), "pozole")
	assert.Equal(t, phrases[0], env.ctrl.LoadingPhrase())

	env.clock.Advance(3 * loading.DefaultInterval)
	assert.Equal(t, phrases[min(3, len(phrases)-1)], env.ctrl.LoadingPhrase())

	// Switching language keeps the position
	env.ctrl.SetLocale(i18n.Spanish)
	assert.Equal(t, i18n.LoadingPhrases(i18n.Spanish)[min(3, len(phrases)-1)], env.ctrl.LoadingPhrase())

	close(env.agent.gate)
	wait(t, done)

	assert.Empty(t, env.ctrl.LoadingPhrase())
	assert.Zero(t, env.clock.Active(), "no timer survives the awaiting state")
}

func TestSubmit_OrdinalsIncrease(t *testing.T) {
	env := newTestEnv(t)

	wait(t, env.ctrl.Submit(context.Background(), "one"))
	wait(t, env.ctrl.Submit(context.Background(), "two"))

	msgs := env.ctrl.Messages()
	require.Len(t, msgs, 4)
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].Ordinal, msgs[i-1].Ordinal)
	}
	assert.Equal(t, []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant},
		[]Role{msgs[0].Role, msgs[1].Role, msgs[2].Role, msgs[3].Role})
}

func TestClear_EmptiesAndResetsRemote(t *testing.T) {
	env := newTestEnv(t)
	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	env.ctrl.Clear(context.Background())

	assert.Zero(t, env.ctrl.Len())
	assert.Equal(t, []string{"session-1-abcdefghi"}, env.agent.resets)
	assert.Equal(t, StateIdle, env.ctrl.State())
}

func TestClear_RemoteFailureIsLoggedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.agent.resetErr = &agent.ServerError{Op: "reset memory", StatusCode: 500}
	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	env.ctrl.Clear(context.Background())

	assert.Zero(t, env.ctrl.Len())
	assert.NoError(t, env.ctrl.Err())
	assert.Equal(t, StateIdle, env.ctrl.State())
	assert.Contains(t, env.logs.String(), "failed to reset agent memory")
}

func TestClear_FromErrorReturnsToIdle(t *testing.T) {
	env := newTestEnv(t)
	env.agent.chatErr = errors.New("boom")
	wait(t, env.ctrl.Submit(context.Background(), "pozole"))
	require.Equal(t, StateError, env.ctrl.State())

	env.ctrl.Clear(context.Background())

	assert.Equal(t, StateIdle, env.ctrl.State())
	assert.NoError(t, env.ctrl.Err())
	assert.Zero(t, env.ctrl.Len())
}

// A reply that lands after Clear is still appended.
func TestClear_InFlightReplyStillAppended(t *testing.T) {
	env := newTestEnv(t)
	env.agent.gate = make(chan struct{})

	done := env.ctrl.Submit(context.Background(), "pozole")
	env.ctrl.Clear(context.Background())

	assert.Zero(t, env.ctrl.Len())
	assert.Equal(t, StateAwaitingResponse, env.ctrl.State(), "clear does not cancel the pending reply")
	assert.Nil(t, env.ctrl.Submit(context.Background(), "again"))

	close(env.agent.gate)
	wait(t, done)

	msgs := env.ctrl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, StateIdle, env.ctrl.State())
	assert.False(t, env.sched.Armed())
}

func TestSubscribe_EventOrder(t *testing.T) {
	env := newTestEnv(t)
	events := env.ctrl.Subscribe(testContext(t))

	wait(t, env.ctrl.Submit(context.Background(), "pozole"))

	var got []EventType
	for len(got) < 5 {
		select {
		case ev := <-events:
			got = append(got, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []EventType{
		EventMessageAppended,
		EventPhaseChanged,
		EventStateChanged,
		EventMessageAppended,
		EventStateChanged,
	}, got)
}

func TestSubscribe_ClosedOnControllerClose(t *testing.T) {
	env := newTestEnv(t)
	events := env.ctrl.Subscribe(testContext(t))

	env.ctrl.Close()

	_, ok := <-events
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_response", StateAwaitingResponse.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "user", RoleUser.String())
	assert.Equal(t, "assistant", RoleAssistant.String())
}

// ABOUTME: ConversationController state machine: Idle, AwaitingResponse, Error
// ABOUTME: Serializes chat calls, drives the loading scheduler, and owns the message log

package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/sazon-chat/internal/agent"
	"github.com/2389/sazon-chat/internal/content"
	"github.com/2389/sazon-chat/internal/i18n"
	"github.com/2389/sazon-chat/internal/loading"
)

// State is the controller's machine state
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
	StateError
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// AgentClient is what the controller needs from the remote agent
type AgentClient interface {
	Chat(ctx context.Context, message, sessionID string) (*agent.ChatReply, error)
	ResetMemory(ctx context.Context, sessionID string) error
}

// SessionSource supplies the session id sent with every agent call
type SessionSource interface {
	GetOrCreateID(ctx context.Context) string
}

// PhaseScheduler is the loading feedback driven while a reply is pending
type PhaseScheduler interface {
	Arm(locale i18n.Locale)
	Disarm()
	CurrentPhrase(locale i18n.Locale) string
	OnChange(f func(loading.Phase))
}

// EventType identifies a controller event
type EventType string

const (
	EventMessageAppended EventType = "message_appended"
	EventStateChanged    EventType = "state_changed"
	EventPhaseChanged    EventType = "phase_changed"
	EventCleared         EventType = "cleared"
)

// Event is published to subscribers on every observable change
type Event struct {
	Type    EventType
	State   State
	Message *Message
	Phase   loading.Phase
}

// Controller is the conversational interaction state machine.
type Controller struct {
	client    AgentClient
	sessions  SessionSource
	scheduler PhaseScheduler
	events    *EventBroadcaster
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	err    error
	conv   Conversation
	locale i18n.Locale
}

// New creates an idle Controller using the default locale.
func New(client AgentClient, sessions SessionSource, scheduler PhaseScheduler, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		client:    client,
		sessions:  sessions,
		scheduler: scheduler,
		events:    NewEventBroadcaster(logger),
		logger:    logger.With("component", "conversation"),
		state:     StateIdle,
		locale:    i18n.Default,
	}
	// Runs on the scheduler's goroutine; must not take c.mu.
	scheduler.OnChange(func(p loading.Phase) {
		c.events.Publish(Event{Type: EventPhaseChanged, State: StateAwaitingResponse, Phase: p})
	})
	return c
}

// Submit sends text to the agent. It returns nil without side effects when
// the trimmed text is empty or a reply is already pending. Otherwise the
// user message is appended before Submit returns, and the returned channel
// is closed once the assistant reply (or fallback) has been appended.
func (c *Controller) Submit(ctx context.Context, text string) <-chan struct{} {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.state == StateAwaitingResponse {
		c.mu.Unlock()
		c.logger.Debug("submit ignored, reply pending")
		return nil
	}
	c.appendLocked(RoleUser, text, nil, nil)
	c.err = nil
	c.transitionLocked(StateAwaitingResponse)
	c.mu.Unlock()

	done := make(chan struct{})
	go c.await(ctx, text, done)
	return done
}

// await performs the chat call and settles the pending state.
func (c *Controller) await(ctx context.Context, text string, done chan struct{}) {
	defer close(done)

	sessionID := c.sessions.GetOrCreateID(ctx)
	reply, err := c.client.Chat(ctx, text, sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("chat failed",
			"error", err,
			"session_id", sessionID,
			"transport", agent.IsTransport(err),
		)
		fallback := i18n.Lookup(c.locale).FallbackText
		c.appendLocked(RoleAssistant, fallback, content.Parse(fallback), nil)
		c.err = err
		c.transitionLocked(StateError)
		return
	}

	if reply == nil {
		reply = &agent.ChatReply{}
	}
	c.appendLocked(RoleAssistant, reply.ResponseText, content.Parse(reply.ResponseText), reply.SourcesUsed)
	c.transitionLocked(StateIdle)
}

// Clear empties the conversation and clears any recorded error, then asks
// the agent to forget the session. The local clear always happens; a
// failed remote reset is only logged. A pending reply is not cancelled.
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	c.conv.Clear()
	c.err = nil
	if c.state == StateError {
		c.transitionLocked(StateIdle)
	}
	c.events.Publish(Event{Type: EventCleared, State: c.state})
	c.mu.Unlock()

	sessionID := c.sessions.GetOrCreateID(ctx)
	if err := c.client.ResetMemory(ctx, sessionID); err != nil {
		c.logger.Warn("failed to reset agent memory",
			"error", err,
			"session_id", sessionID,
		)
		return
	}
	c.logger.Debug("agent memory reset", "session_id", sessionID)
}

// transitionLocked runs the exit action of the current state and the entry
// action of the next. Must be called with mu held.
func (c *Controller) transitionLocked(next State) {
	prev := c.state
	if prev == next {
		return
	}
	if prev == StateAwaitingResponse {
		c.scheduler.Disarm()
	}
	c.state = next
	if next == StateAwaitingResponse {
		c.scheduler.Arm(c.locale)
	}

	c.logger.Debug("state changed", "from", prev, "to", next)
	c.events.Publish(Event{Type: EventStateChanged, State: next})
}

func (c *Controller) appendLocked(role Role, text string, blocks []content.Block, sources []string) {
	msg := c.conv.Append(role, text, blocks, sources)
	c.events.Publish(Event{Type: EventMessageAppended, State: c.state, Message: &msg})
}

// State returns the current machine state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error recorded by the last failed submit, or nil
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Messages returns a copy of the conversation log
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Messages()
}

// Len returns the number of messages in the log
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Len()
}

// Locale returns the display locale
func (c *Controller) Locale() i18n.Locale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// SetLocale changes the display locale. A running loading sequence keeps
// its position; only the phrase lookup changes.
func (c *Controller) SetLocale(locale i18n.Locale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

// LoadingPhrase returns the current progress phrase while a reply is
// pending and "" otherwise.
func (c *Controller) LoadingPhrase() string {
	c.mu.Lock()
	state, locale := c.state, c.locale
	c.mu.Unlock()

	if state != StateAwaitingResponse {
		return ""
	}
	return c.scheduler.CurrentPhrase(locale)
}

// Subscribe returns a channel of controller events, closed when ctx is
// cancelled or the controller is closed.
func (c *Controller) Subscribe(ctx context.Context) <-chan Event {
	ch, _ := c.events.Subscribe(ctx)
	return ch
}

// Close stops the loading scheduler and closes all subscriptions.
func (c *Controller) Close() {
	c.scheduler.Disarm()
	c.events.Close()
}

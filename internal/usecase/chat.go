package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"campus-kiosk/internal/domain"
)

// ErrStaleReply is returned when a completion does not match the request
// currently outstanding.
var ErrStaleReply = errors.New("chat reply does not match the pending request")

// Default chat texts.
const (
	DefaultWelcome      = "👋 Welcome to CampusGPT! Chat here or click 'Navigate' to explore the campus."
	DefaultErrorMessage = "Sorry, something went wrong."
)

// FailurePolicy decides what a failed round trip leaves in the history.
type FailurePolicy string

const (
	// AppendErrorTurn records the apology as an assistant turn, so the next
	// request still alternates user and assistant turns.
	AppendErrorTurn FailurePolicy = "append_error_turn"
	// KeepUserTurn leaves the unanswered user turn as the last history
	// entry; the apology is only rendered.
	KeepUserTurn FailurePolicy = "keep_user_turn"
)

// ChatOptions configures the chat session.
type ChatOptions struct {
	Welcome       string
	ErrorMessage  string
	FailurePolicy FailurePolicy
}

// Pending is an outstanding chat round trip.
type Pending struct {
	Seq uint64
	// History is the full transcript to send, ending with the new user turn.
	History []domain.ChatTurn
}

// Entry is one rendered line of the chat log.
type Entry struct {
	Turn domain.ChatTurn
	// Failed marks the apology rendered for a failed round trip.
	Failed bool
}

// ChatSession owns the chat history. One round trip may be outstanding at
// a time; replies are applied in arrival order.
type ChatSession struct {
	backend domain.ChatBackend
	opts    ChatOptions
	events  domain.EventPublisher
	logger  *slog.Logger

	mu         sync.Mutex
	history    []domain.ChatTurn
	transcript []Entry
	pending    bool
	seq        uint64
}

// NewChatSession creates a session seeded with the welcome turn.
func NewChatSession(backend domain.ChatBackend, opts ChatOptions, events domain.EventPublisher, logger *slog.Logger) *ChatSession {
	if opts.Welcome == "" {
		opts.Welcome = DefaultWelcome
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = DefaultErrorMessage
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = AppendErrorTurn
	}
	welcome := domain.AssistantTurn(opts.Welcome)
	return &ChatSession{
		backend:    backend,
		opts:       opts,
		events:     events,
		logger:     logger,
		history:    []domain.ChatTurn{welcome},
		transcript: []Entry{{Turn: welcome}},
	}
}

// Begin validates text, appends it as a user turn and returns the request
// to send. Blank input and input while a request is outstanding are
// rejected without touching the history.
func (c *ChatSession) Begin(ctx context.Context, text string) (Pending, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return Pending{}, domain.WrapOp("Chat.Begin", domain.ErrEmptyMessage)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return Pending{}, domain.WrapOp("Chat.Begin", domain.ErrRequestPending)
	}

	turn := domain.UserTurn(msg)
	c.history = append(c.history, turn)
	c.transcript = append(c.transcript, Entry{Turn: turn})
	c.pending = true
	c.seq++

	publish(ctx, c.events, domain.EventChatTurnAdded, map[string]string{"role": string(domain.RoleUser)})
	return Pending{Seq: c.seq, History: slices.Clone(c.history)}, nil
}

// Complete applies the outcome of p. A reply is appended as an assistant
// turn. A failure renders the apology and, under the append policy, records
// it as an assistant turn too. There is no retry.
func (c *ChatSession) Complete(ctx context.Context, p Pending, reply string, callErr error) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending || p.Seq != c.seq {
		return Entry{}, ErrStaleReply
	}
	c.pending = false

	if callErr != nil {
		kind := domain.ClassifyFailure(callErr)
		c.logger.Warn("chat request failed",
			"error", callErr,
			"error_code", domain.ErrorCodeOf(callErr),
			"failure", kind.String(),
			"policy", string(c.opts.FailurePolicy),
		)
		apology := domain.AssistantTurn(c.opts.ErrorMessage)
		if c.opts.FailurePolicy == AppendErrorTurn {
			c.history = append(c.history, apology)
		}
		entry := Entry{Turn: apology, Failed: true}
		c.transcript = append(c.transcript, entry)
		publish(ctx, c.events, domain.EventChatFailed, map[string]string{"failure": kind.String()})
		return entry, nil
	}

	turn := domain.AssistantTurn(reply)
	c.history = append(c.history, turn)
	entry := Entry{Turn: turn}
	c.transcript = append(c.transcript, entry)
	publish(ctx, c.events, domain.EventChatTurnAdded, map[string]string{"role": string(domain.RoleAssistant)})
	return entry, nil
}

// Send performs the backend call for p. It touches no session state and is
// safe to run off the UI loop.
func (c *ChatSession) Send(ctx context.Context, p Pending) (string, error) {
	return c.backend.Chat(ctx, p.History)
}

// Submit runs Begin, Send and Complete in sequence.
func (c *ChatSession) Submit(ctx context.Context, text string) (Entry, error) {
	p, err := c.Begin(ctx, text)
	if err != nil {
		return Entry{}, err
	}
	reply, callErr := c.Send(ctx, p)
	return c.Complete(ctx, p, reply, callErr)
}

// History returns a copy of the turns that will be sent to the backend.
func (c *ChatSession) History() []domain.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// Transcript returns a copy of everything shown in the chat log, including
// apologies that are not part of the history.
func (c *ChatSession) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.transcript)
}

// Pending reports whether a round trip is outstanding.
func (c *ChatSession) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

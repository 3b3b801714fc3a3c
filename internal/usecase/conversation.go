package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"docs-chat/internal/domain"
)

const (
	// UnreachableText replaces the bot reply whenever the call fails, whatever
	// the cause.
	UnreachableText = "Error: Unable to reach the API."

	// The API supports sessions but every call starts a fresh one.
	emptySessionID = ""
)

// Retriever sends one message to the retrieval API.
type Retriever interface {
	Retrieve(ctx context.Context, sessionID, message string) (*domain.Reply, error)
}

type EventKind int

const (
	// EventAppended fires after a message is added to the log.
	EventAppended EventKind = iota + 1
	// EventSettled fires once a submit cycle has finished, successfully or not.
	EventSettled
)

type Event struct {
	Kind    EventKind
	Message domain.Message
}

// Listener observes log mutations. It is called outside the conversation lock
// and must not block.
type Listener func(Event)

// Conversation owns the message log and the request/response cycle. It does
// not serialize submits: overlapping calls each append their reply when they
// resolve, so replies may land out of submission order.
type Conversation struct {
	client    Retriever
	logger    *slog.Logger
	listeners []Listener

	mu      sync.Mutex
	log     []domain.Message
	pending bool
	draft   string
}

type ConversationOption func(*Conversation)

func WithListener(l Listener) ConversationOption {
	return func(c *Conversation) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

func WithLogger(logger *slog.Logger) ConversationOption {
	return func(c *Conversation) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Exchange is an in-flight submit: the user message already in the log.
type Exchange struct {
	Request domain.Message
}

func NewConversation(client Retriever, opts ...ConversationOption) (*Conversation, error) {
	if client == nil {
		return nil, errors.New("usecase: retriever must not be nil")
	}
	c := &Conversation{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit runs a full cycle and returns the bot message it appended.
func (c *Conversation) Submit(ctx context.Context, text string) domain.Message {
	return c.Complete(ctx, c.Begin(text))
}

// Begin appends the user message and marks the conversation pending. Any
// text is accepted, including the empty string.
func (c *Conversation) Begin(text string) Exchange {
	msg := domain.Message{
		ID:     newMessageID(),
		Sender: domain.SenderUser,
		Text:   text,
	}

	c.mu.Lock()
	c.log = append(c.log, msg)
	c.pending = true
	c.mu.Unlock()

	c.notify(Event{Kind: EventAppended, Message: msg})
	return Exchange{Request: msg}
}

// Complete performs the API call for ex and appends the bot message. Success
// and failure converge: pending and the draft are cleared either way.
func (c *Conversation) Complete(ctx context.Context, ex Exchange) domain.Message {
	reply, err := c.client.Retrieve(ctx, emptySessionID, ex.Request.Text)

	bot := domain.Message{
		ID:     newMessageID(),
		Sender: domain.SenderBot,
	}
	if err != nil {
		uerr := classifyRetrieveError(err)
		c.logger.ErrorContext(ctx, "error fetching response",
			"code", uerr.Code,
			"reason", uerr.Reason,
			"request_id", ex.Request.ID,
			"err", err,
		)
		bot.Text = UnreachableText
	} else {
		if reply == nil {
			reply = &domain.Reply{}
		}
		bot.Reply = reply
	}

	c.mu.Lock()
	c.log = append(c.log, bot)
	c.pending = false
	c.draft = ""
	c.mu.Unlock()

	c.notify(Event{Kind: EventAppended, Message: bot})
	c.notify(Event{Kind: EventSettled, Message: bot})
	return bot
}

// Messages returns a snapshot of the log in display order.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.log))
	copy(out, c.log)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.log)
}

// Pending reports whether a call is outstanding. With overlapping submits the
// first one to settle clears it.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Conversation) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Conversation) SetDraft(s string) {
	c.mu.Lock()
	c.draft = s
	c.mu.Unlock()
}

func (c *Conversation) notify(ev Event) {
	for _, l := range c.listeners {
		l(ev)
	}
}

var newMessageID = func() string {
	return uuid.NewString()
}

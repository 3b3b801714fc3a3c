package domain

// Sender identifies who authored a conversation entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single entry in the conversation log. A user message carries
// Text. A bot message carries either the structured Reply or, when the call
// failed, a plain Text.
type Message struct {
	ID     string
	Sender Sender
	Text   string
	Reply  *Reply
}

// IsReply reports whether the message holds a structured reply.
func (m Message) IsReply() bool {
	return m.Reply != nil
}

package presenter

import (
	"context"
	"pairchat/contract"
	"pairchat/domain"
	"pairchat/services"
	"strings"
	"sync"
)

const anonymous = "Anonymous"

type ChatState struct {
	Messages []domain.Message
	Loading  bool
	Sending  bool
	Error    string
}

// Chat is the state of one open conversation.
type Chat struct {
	mu             sync.Mutex
	messages       services.IMessageService
	conversationID string
	senderID       string
	senderName     string
	state          ChatState
	sub            contract.Subscription
	generation     uint64
	onChange       func(ChatState)
}

// SenderName is the name stamped on outgoing messages.
func SenderName(user *contract.AuthUser) string {
	if user == nil {
		return anonymous
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Email != "" {
		return user.Email
	}
	return anonymous
}

// NewChat opens the conversation between the signed-in user and otherUID.
// self may be nil, sending is then refused.
func NewChat(messages services.IMessageService, self *contract.AuthUser, otherUID string) *Chat {
	var selfUID string
	if self != nil {
		selfUID = self.UID
	}
	return NewConversationChat(messages, domain.ConversationID(selfUID, otherUID), self)
}

func NewConversationChat(messages services.IMessageService, conversationID string, self *contract.AuthUser) *Chat {
	c := &Chat{
		messages:       messages,
		conversationID: conversationID,
		senderName:     SenderName(self),
		state:          ChatState{Loading: true},
	}
	if self != nil {
		c.senderID = self.UID
	}
	return c
}

func (c *Chat) ConversationID() string {
	return c.conversationID
}

// OnChange sets the function called after every state change.
func (c *Chat) OnChange(fn func(ChatState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Chat) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open starts listening to the conversation. Deliveries of a previous
// Open are dropped.
func (c *Chat) Open(ctx context.Context) error {
	c.Close()

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	if c.conversationID == "" {
		c.update(func(s *ChatState) { s.Loading = false })
		return nil
	}
	c.update(func(s *ChatState) { s.Loading = true })

	sub, err := c.messages.Subscribe(ctx, c.conversationID, func(messages []domain.Message) {
		c.updateIf(generation, func(s *ChatState) {
			s.Messages = messages
			s.Loading = false
		})
	}, func(err error) {
		c.updateIf(generation, func(s *ChatState) {
			s.Error = err.Error()
			s.Loading = false
		})
	})
	if err != nil {
		c.update(func(s *ChatState) {
			s.Error = err.Error()
			s.Loading = false
		})
		return err
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		sub.Unsubscribe()
		return nil
	}
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// Close stops the live query, nothing is delivered afterwards.
func (c *Chat) Close() {
	c.mu.Lock()
	c.generation++
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Send reports whether the message was written. Blank text or a missing
// sender are refused silently, a write failure sets the error and the next
// successful write clears it.
func (c *Chat) Send(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" || c.senderID == "" || c.senderName == "" {
		return false
	}
	c.update(func(s *ChatState) { s.Sending = true })
	defer c.update(func(s *ChatState) { s.Sending = false })

	if _, err := c.messages.Send(ctx, c.conversationID, c.senderID, c.senderName, text); err != nil {
		c.update(func(s *ChatState) { s.Error = err.Error() })
		return false
	}
	c.update(func(s *ChatState) { s.Error = "" })
	return true
}

func (c *Chat) update(fn func(*ChatState)) {
	c.mu.Lock()
	fn(&c.state)
	state, onChange := c.state, c.onChange
	c.mu.Unlock()
	if onChange != nil {
		onChange(state)
	}
}

func (c *Chat) updateIf(generation uint64, fn func(*ChatState)) {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	state, onChange := c.state, c.onChange
	c.mu.Unlock()
	if onChange != nil {
		onChange(state)
	}
}

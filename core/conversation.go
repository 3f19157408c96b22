package core

import "sync"

// Conversation is an accumulating, caller-owned log of turns used to build
// successive requests. The log only grows; nothing is removed automatically,
// so bounding memory or turn count is the caller's concern.
//
// The internal lock makes individual appends and snapshots safe, but the
// Conversation is still an ordinary mutable value owned by one logical
// caller at a time; coordinating multiple writers needs external
// synchronization.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append pushes a pre-built message onto the log. The message is copied on
// insertion.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg.clone())
}

// AppendSystem appends a system text turn.
func (c *Conversation) AppendSystem(text string) error {
	return c.appendText(RoleSystem, text)
}

// AppendUser appends a user text turn.
func (c *Conversation) AppendUser(text string) error {
	return c.appendText(RoleUser, text)
}

// AppendAssistant appends an assistant text turn.
func (c *Conversation) AppendAssistant(text string) error {
	return c.appendText(RoleAssistant, text)
}

// AppendTool appends a tool text turn.
func (c *Conversation) AppendTool(text string) error {
	return c.appendText(RoleTool, text)
}

func (c *Conversation) appendText(role Role, text string) error {
	msg, err := NewTextMessage(role, text)
	if err != nil {
		return err
	}
	c.Append(msg)
	return nil
}

// AppendResponse appends the first choice of a response as an assistant
// turn, preserving conversation continuity across calls.
func (c *Conversation) AppendResponse(resp *Response) error {
	if resp == nil || len(resp.Choices) == 0 {
		return invalidValue("response", "has no choices to append")
	}
	msg := resp.Choices[0].Message
	if len(msg.Content) == 0 {
		return invalidValue("response", "first choice has no content")
	}
	msg.Role = RoleAssistant
	c.Append(msg)
	return nil
}

// Messages returns a snapshot copy of the log.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneMessages(c.messages)
}

// Len returns the number of turns in the log.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// NewRequest builds a request from a snapshot of the current log. The log is
// read, not consumed: later appends cannot retroactively alter the built
// request, and the conversation stays usable afterwards.
func (c *Conversation) NewRequest(model string, params ...Param) (*Request, error) {
	return NewRequest(model).
		Messages(c.Messages()...).
		Params(params...).
		Build()
}

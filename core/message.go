package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one conversational turn: a role plus an ordered sequence of
// content parts. Messages are immutable once constructed; containers copy
// on insertion, so a Message value is never shared between a Conversation
// and a built Request.
type Message struct {
	Role    Role
	Content []ContentPart
}

// NewMessage creates a message with the given role and content parts.
// Content must be non-empty; this is the only place the invariant is
// checked, downstream code trusts built values.
func NewMessage(role Role, parts ...ContentPart) (Message, error) {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
	default:
		return Message{}, invalidValuef("role", "unknown role %q", role)
	}
	if len(parts) == 0 {
		return Message{}, invalidValue("content", "must be non-empty")
	}
	content := make([]ContentPart, len(parts))
	copy(content, parts)
	return Message{Role: role, Content: content}, nil
}

// NewTextMessage creates a single-text-part message.
func NewTextMessage(role Role, text string) (Message, error) {
	part, err := NewText(text)
	if err != nil {
		return Message{}, err
	}
	return NewMessage(role, part)
}

// Text returns the concatenation of all text parts in the message.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Content {
		if t, ok := p.(Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// clone returns a copy whose content slice is independent of the receiver.
func (m Message) clone() Message {
	content := make([]ContentPart, len(m.Content))
	copy(content, m.Content)
	return Message{Role: m.Role, Content: content}
}

// cloneMessages copies a message list, cloning each message.
func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.clone()
	}
	return out
}

// messageWire is the wire form of a message.
type messageWire struct {
	Role    Role              `json:"role"`
	Content []contentPartWire `json:"content"`
}

// MarshalJSON encodes the message as {"role": ..., "content": [part...]}.
func (m Message) MarshalJSON() ([]byte, error) {
	w := messageWire{Role: m.Role, Content: make([]contentPartWire, 0, len(m.Content))}
	for _, p := range m.Content {
		pw, err := marshalContentPart(p)
		if err != nil {
			return nil, err
		}
		w.Content = append(w.Content, pw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire form back into typed content parts.
// Content may arrive as a bare string, which decodes as a single text part.
// An unrecognized part discriminator fails the decode.
func (m *Message) UnmarshalJSON(data []byte) error {
	var probe struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return &Error{Detail: fmt.Sprintf("malformed message: %v", err), Err: ErrDecode}
	}

	var parts []contentPartWire
	if len(probe.Content) > 0 {
		var text string
		if err := json.Unmarshal(probe.Content, &text); err == nil {
			parts = []contentPartWire{{Type: "text", Text: text}}
		} else if err := json.Unmarshal(probe.Content, &parts); err != nil {
			return &Error{Detail: fmt.Sprintf("malformed message content: %v", err), Err: ErrDecode}
		}
	}

	content := make([]ContentPart, 0, len(parts))
	for _, pw := range parts {
		p, err := decodeContentPart(pw)
		if err != nil {
			return err
		}
		content = append(content, p)
	}

	m.Role = probe.Role
	m.Content = content
	return nil
}

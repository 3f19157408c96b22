package core

// Request is the validated, immutable description of one call to the
// inference endpoint. Build either fully succeeds or returns only an error;
// no partially-applied request escapes the builder. Treat a built Request as
// read-only.
type Request struct {
	// Model is the model identifier. Never empty.
	Model string

	// Messages is the ordered conversation. Non-empty unless
	// PreviousResponseID continues a prior turn.
	Messages []Message

	// PreviousResponseID links this request to a prior response.
	PreviousResponseID string

	// Stream requests incremental delivery.
	Stream bool

	// Params is the merged parameter state, folded in list order.
	Params Parameters

	// Tools lists the tools available to the model, in order.
	Tools []Tool
}

// RequestBuilder composes messages, parameters, and tools into a Request.
// Builders are not safe for concurrent use. Entry order is preserved
// throughout, so later params can override earlier ones for the same field.
type RequestBuilder struct {
	model    string
	messages []Message
	params   []Param
	tools    []Tool
	prevID   string
	stream   bool
	err      error
}

// NewRequest starts building a request for the given model.
func NewRequest(model string) *RequestBuilder {
	return &RequestBuilder{model: model}
}

// Messages appends pre-built messages. Each message is copied on insertion.
func (b *RequestBuilder) Messages(msgs ...Message) *RequestBuilder {
	for _, m := range msgs {
		b.messages = append(b.messages, m.clone())
	}
	return b
}

// System appends a system text message.
func (b *RequestBuilder) System(text string) *RequestBuilder {
	return b.appendText(RoleSystem, text)
}

// User appends a user text message.
func (b *RequestBuilder) User(text string) *RequestBuilder {
	return b.appendText(RoleUser, text)
}

// Assistant appends an assistant text message.
func (b *RequestBuilder) Assistant(text string) *RequestBuilder {
	return b.appendText(RoleAssistant, text)
}

func (b *RequestBuilder) appendText(role Role, text string) *RequestBuilder {
	msg, err := NewTextMessage(role, text)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.messages = append(b.messages, msg)
	return b
}

// Params appends generation parameters, preserving order.
func (b *RequestBuilder) Params(params ...Param) *RequestBuilder {
	b.params = append(b.params, params...)
	return b
}

// Tools appends tool definitions.
func (b *RequestBuilder) Tools(tools ...Tool) *RequestBuilder {
	b.tools = append(b.tools, tools...)
	return b
}

// PreviousResponse links the request to a prior response, allowing an empty
// message list.
func (b *RequestBuilder) PreviousResponse(id string) *RequestBuilder {
	b.prevID = id
	return b
}

// Stream sets the streaming flag.
func (b *RequestBuilder) Stream(v bool) *RequestBuilder {
	b.stream = v
	return b
}

// Build validates the composition and returns an immutable Request.
// Checks run in order: model, messages, parameters, tools; the first
// failure short-circuits. Build performs no I/O and may be called more than
// once; each call returns an independent Request built from a snapshot of
// the builder's current state.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.model == "" {
		return nil, invalidValue("model", "must be non-empty")
	}
	if len(b.messages) == 0 && b.prevID == "" {
		return nil, invalidValue("messages", "must be non-empty unless previous_response_id is set")
	}

	params := applyParams(b.params)

	for _, t := range b.tools {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}

	return &Request{
		Model:              b.model,
		Messages:           cloneMessages(b.messages),
		PreviousResponseID: b.prevID,
		Stream:             b.stream,
		Params:             params,
		Tools:              cloneTools(b.tools),
	}, nil
}

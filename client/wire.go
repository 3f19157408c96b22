package client

import (
	"encoding/json"

	"github.com/loomlabs/loom/core"
)

// Wire body types. The request body flattens the merged parameter fields
// alongside model, input, and tools; messages and content parts carry their
// own wire forms in core.

type wireRequest struct {
	Model              string         `json:"model"`
	Input              []core.Message `json:"input"`
	Stream             bool           `json:"stream"`
	PreviousResponseID *string        `json:"previous_response_id"`
	Temperature        *float64       `json:"temperature,omitempty"`
	TopP               *float64       `json:"top_p,omitempty"`
	MaxOutputTokens    *int           `json:"max_output_tokens,omitempty"`
	FrequencyPenalty   *float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty    *float64       `json:"presence_penalty,omitempty"`
	ToolChoice         string         `json:"tool_choice,omitempty"`
	MaxToolCalls       *int           `json:"max_tool_calls,omitempty"`
	StreamOptions      map[string]any `json:"stream_options,omitempty"`
	Tools              []wireTool     `json:"tools,omitempty"`
}

type wireTool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Strict      bool            `json:"strict,omitempty"`
}

// encodeRequest serializes a request body. The stream argument reflects the
// call mode and overrides the request's own flag, so the same built request
// can be executed either way.
func encodeRequest(req *core.Request, stream bool) ([]byte, error) {
	w := wireRequest{
		Model:            req.Model,
		Input:            req.Messages,
		Stream:           stream,
		Temperature:      req.Params.Temperature,
		TopP:             req.Params.TopP,
		MaxOutputTokens:  req.Params.MaxOutputTokens,
		FrequencyPenalty: req.Params.FrequencyPenalty,
		PresencePenalty:  req.Params.PresencePenalty,
		ToolChoice:       string(req.Params.ToolChoice),
		MaxToolCalls:     req.Params.MaxToolCalls,
		StreamOptions:    req.Params.StreamOptions,
	}
	if w.Input == nil {
		w.Input = []core.Message{}
	}
	if req.PreviousResponseID != "" {
		id := req.PreviousResponseID
		w.PreviousResponseID = &id
	}
	for _, t := range req.Tools {
		wt := wireTool{Type: string(t.Kind)}
		if t.Function != nil {
			wt.Name = t.Function.Name
			wt.Description = t.Function.Description
			wt.Parameters = t.Function.Parameters
			wt.Strict = t.Function.Strict
		}
		w.Tools = append(w.Tools, wt)
	}

	body, err := json.Marshal(w)
	if err != nil {
		return nil, decodeError(err)
	}
	return body, nil
}

// decodeRequest is the inverse of encodeRequest. The round trip preserves
// the merged parameter state, messages, tools, and the stream flag.
func decodeRequest(data []byte) (*core.Request, error) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError(err)
	}

	req := &core.Request{
		Model:    w.Model,
		Messages: w.Input,
		Stream:   w.Stream,
		Params: core.Parameters{
			Temperature:      w.Temperature,
			TopP:             w.TopP,
			MaxOutputTokens:  w.MaxOutputTokens,
			FrequencyPenalty: w.FrequencyPenalty,
			PresencePenalty:  w.PresencePenalty,
			ToolChoice:       core.ToolChoicePolicy(w.ToolChoice),
			MaxToolCalls:     w.MaxToolCalls,
			StreamOptions:    w.StreamOptions,
		},
	}
	if len(req.Messages) == 0 {
		req.Messages = nil
	}
	if w.PreviousResponseID != nil {
		req.PreviousResponseID = *w.PreviousResponseID
	}
	for _, wt := range w.Tools {
		t := core.Tool{Kind: core.ToolKind(wt.Type)}
		if t.Kind == core.ToolKindFunction {
			t.Function = &core.FunctionSpec{
				Name:        wt.Name,
				Description: wt.Description,
				Parameters:  wt.Parameters,
				Strict:      wt.Strict,
			}
		}
		req.Tools = append(req.Tools, t)
	}
	return req, nil
}

// decodeResponse parses a complete response body. It is shared between the
// single-shot path and the streaming completed event, so both call modes
// decode identically.
func decodeResponse(data []byte) (*core.Response, error) {
	var resp core.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, decodeError(err)
	}
	return &resp, nil
}

// streamEventWire is the envelope of one streaming payload. Type selects
// the variant; the remaining fields are decoded lazily per type.
type streamEventWire struct {
	Type     string          `json:"type"`
	Item     json.RawMessage `json:"item,omitempty"`
	ItemID   string          `json:"item_id,omitempty"`
	Delta    json.RawMessage `json:"delta,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// decodeEvent turns one record payload into a typed stream event. Unknown
// discriminators yield an unrecognized event rather than an error so
// callers can skip forward-compatible kinds.
func decodeEvent(payload []byte) (core.StreamEvent, error) {
	var w streamEventWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return core.StreamEvent{}, decodeError(err)
	}

	switch w.Type {
	case "output_item.added":
		var item core.OutputItem
		if len(w.Item) > 0 {
			if err := json.Unmarshal(w.Item, &item); err != nil {
				return core.StreamEvent{}, decodeError(err)
			}
		}
		return core.StreamEvent{Kind: core.EventOutputItemAdded, Item: &item}, nil

	case "output_item.delta":
		delta, err := decodeDelta(w.Delta)
		if err != nil {
			return core.StreamEvent{}, err
		}
		return core.StreamEvent{Kind: core.EventOutputItemDelta, ItemID: w.ItemID, Delta: delta}, nil

	case "response.completed":
		resp, err := decodeResponse(w.Response)
		if err != nil {
			return core.StreamEvent{}, err
		}
		return core.StreamEvent{Kind: core.EventCompleted, Response: resp}, nil

	default:
		raw := append(json.RawMessage(nil), payload...)
		return core.StreamEvent{Kind: core.EventUnrecognized, Raw: raw}, nil
	}
}

// decodeDelta accepts the delta either as a bare string or as an object
// carrying a text field.
func decodeDelta(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", decodeError(err)
	}
	return obj.Text, nil
}

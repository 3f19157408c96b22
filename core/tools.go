package core

import "encoding/json"

// ToolKind identifies the kind of tool made available to the model.
type ToolKind string

const (
	ToolKindFunction         ToolKind = "function"
	ToolKindFileSearch       ToolKind = "file_search"
	ToolKindWebSearchPreview ToolKind = "web_search_preview"
)

// FunctionSpec describes a callable function tool.
type FunctionSpec struct {
	// Name is the function name the model uses to invoke it. Required.
	Name string
	// Description tells the model what the function does.
	Description string
	// Parameters is a JSON Schema object describing the arguments.
	Parameters json.RawMessage
	// Strict requests strict schema adherence from the model.
	Strict bool
}

// Tool describes one callable tool a model may invoke.
type Tool struct {
	Kind     ToolKind
	Function *FunctionSpec
}

// NewFunctionTool creates a function tool. The name must be non-empty and
// the schema, when present, must be valid JSON.
func NewFunctionTool(name, description string, schema json.RawMessage, strict bool) (Tool, error) {
	t := Tool{
		Kind: ToolKindFunction,
		Function: &FunctionSpec{
			Name:        name,
			Description: description,
			Parameters:  schema,
			Strict:      strict,
		},
	}
	if err := t.validate(); err != nil {
		return Tool{}, err
	}
	return t, nil
}

// NewBuiltInTool creates a built-in tool of the given kind.
func NewBuiltInTool(kind ToolKind) (Tool, error) {
	t := Tool{Kind: kind}
	if err := t.validate(); err != nil {
		return Tool{}, err
	}
	return t, nil
}

// validate checks the tool invariants. Also run by the request builder so
// tools constructed as literals are still checked before a request is built.
func (t Tool) validate() error {
	switch t.Kind {
	case ToolKindFunction:
		if t.Function == nil || t.Function.Name == "" {
			return invalidValue("tools", "function tool requires a non-empty function name")
		}
		if len(t.Function.Parameters) > 0 && !json.Valid(t.Function.Parameters) {
			return invalidValuef("tools", "function %q has a malformed parameter schema", t.Function.Name)
		}
	case ToolKindFileSearch, ToolKindWebSearchPreview:
		if t.Function != nil {
			return invalidValuef("tools", "%s tool must not carry a function spec", t.Kind)
		}
	default:
		return invalidValuef("tools", "unknown tool kind %q", t.Kind)
	}
	return nil
}

// cloneTools copies a tool list, including function specs and schemas.
func cloneTools(ts []Tool) []Tool {
	if ts == nil {
		return nil
	}
	out := make([]Tool, len(ts))
	for i, t := range ts {
		out[i] = t
		if t.Function != nil {
			fn := *t.Function
			if fn.Parameters != nil {
				fn.Parameters = append(json.RawMessage(nil), fn.Parameters...)
			}
			out[i].Function = &fn
		}
	}
	return out
}

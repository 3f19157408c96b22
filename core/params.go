package core

// Param is a validated generation parameter. A Param is constructed through
// a fallible constructor that checks its bounds up front, so an invalid
// instance never exists. Building a request applies params in list order;
// params targeting the same field overwrite, last-applied-wins. This is the
// whole conflict policy: no merging and no duplicate error, with the single
// exception of StreamOptions, whose entries merge key-by-key with later
// values overwriting the same keys.
type Param interface {
	applyParam(p *Parameters)
}

// Parameters is the merged parameter state of a request. Nil pointer fields
// are omitted from the wire body.
type Parameters struct {
	Temperature      *float64
	TopP             *float64
	MaxOutputTokens  *int
	FrequencyPenalty *float64
	PresencePenalty  *float64
	ToolChoice       ToolChoicePolicy
	MaxToolCalls     *int
	StreamOptions    map[string]any
}

// applyParams folds a parameter list onto a fresh accumulator in list order.
func applyParams(params []Param) Parameters {
	var p Parameters
	for _, param := range params {
		param.applyParam(&p)
	}
	return p
}

type temperatureParam float64

// Temperature sets the sampling temperature. The value must be in [0.0, 2.0].
func Temperature(v float64) (Param, error) {
	if v < 0 || v > 2 {
		return nil, invalidValuef("temperature", "%v outside [0.0, 2.0]", v)
	}
	return temperatureParam(v), nil
}

func (t temperatureParam) applyParam(p *Parameters) {
	v := float64(t)
	p.Temperature = &v
}

type topPParam float64

// TopP sets the nucleus sampling threshold. The value must be in [0.0, 1.0].
func TopP(v float64) (Param, error) {
	if v < 0 || v > 1 {
		return nil, invalidValuef("top_p", "%v outside [0.0, 1.0]", v)
	}
	return topPParam(v), nil
}

func (t topPParam) applyParam(p *Parameters) {
	v := float64(t)
	p.TopP = &v
}

type maxOutputTokensParam int

// MaxOutputTokens caps the generated output length. The value must be >= 1.
func MaxOutputTokens(n int) (Param, error) {
	if n < 1 {
		return nil, invalidValuef("max_output_tokens", "%d must be >= 1", n)
	}
	return maxOutputTokensParam(n), nil
}

func (t maxOutputTokensParam) applyParam(p *Parameters) {
	n := int(t)
	p.MaxOutputTokens = &n
}

type frequencyPenaltyParam float64

// FrequencyPenalty sets the frequency penalty. The value must be in [-2.0, 2.0].
func FrequencyPenalty(v float64) (Param, error) {
	if v < -2 || v > 2 {
		return nil, invalidValuef("frequency_penalty", "%v outside [-2.0, 2.0]", v)
	}
	return frequencyPenaltyParam(v), nil
}

func (t frequencyPenaltyParam) applyParam(p *Parameters) {
	v := float64(t)
	p.FrequencyPenalty = &v
}

type presencePenaltyParam float64

// PresencePenalty sets the presence penalty. The value must be in [-2.0, 2.0].
func PresencePenalty(v float64) (Param, error) {
	if v < -2 || v > 2 {
		return nil, invalidValuef("presence_penalty", "%v outside [-2.0, 2.0]", v)
	}
	return presencePenaltyParam(v), nil
}

func (t presencePenaltyParam) applyParam(p *Parameters) {
	v := float64(t)
	p.PresencePenalty = &v
}

// ToolChoicePolicy governs whether and how the model may invoke tools.
type ToolChoicePolicy string

const (
	ToolChoiceAuto     ToolChoicePolicy = "auto"
	ToolChoiceNone     ToolChoicePolicy = "none"
	ToolChoiceRequired ToolChoicePolicy = "required"
)

type toolChoiceParam ToolChoicePolicy

// ToolChoice sets the tool-use policy. The policy must be one of
// ToolChoiceAuto, ToolChoiceNone, or ToolChoiceRequired.
func ToolChoice(policy ToolChoicePolicy) (Param, error) {
	switch policy {
	case ToolChoiceAuto, ToolChoiceNone, ToolChoiceRequired:
	default:
		return nil, invalidValuef("tool_choice", "unknown policy %q", policy)
	}
	return toolChoiceParam(policy), nil
}

func (t toolChoiceParam) applyParam(p *Parameters) {
	p.ToolChoice = ToolChoicePolicy(t)
}

type maxToolCallsParam int

// MaxToolCalls caps how many tool invocations the model may make.
// The value must be >= 0.
func MaxToolCalls(n int) (Param, error) {
	if n < 0 {
		return nil, invalidValuef("max_tool_calls", "%d must be >= 0", n)
	}
	return maxToolCallsParam(n), nil
}

func (t maxToolCallsParam) applyParam(p *Parameters) {
	n := int(t)
	p.MaxToolCalls = &n
}

type streamOptionsParam map[string]any

// StreamOptions sets an opaque bag of streaming options. The bag is copied,
// and unlike scalar params, bags merge: applying two StreamOptions params
// keeps the union of their keys, later values winning on key collisions.
func StreamOptions(opts map[string]any) Param {
	bag := make(map[string]any, len(opts))
	for k, v := range opts {
		bag[k] = v
	}
	return streamOptionsParam(bag)
}

func (t streamOptionsParam) applyParam(p *Parameters) {
	if p.StreamOptions == nil {
		p.StreamOptions = make(map[string]any, len(t))
	}
	for k, v := range t {
		p.StreamOptions[k] = v
	}
}

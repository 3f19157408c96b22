package core

import (
	"errors"
	"testing"
)

func TestTemperatureBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"mid", 0.7, false},
		{"max", 2.0, false},
		{"negative", -0.1, true},
		{"above max", 2.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Temperature(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Temperature(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestTopPBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"negative", -0.01, true},
		{"above one", 1.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TopP(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TopP(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestMaxOutputTokensBounds(t *testing.T) {
	if _, err := MaxOutputTokens(1); err != nil {
		t.Errorf("MaxOutputTokens(1) error = %v", err)
	}
	if _, err := MaxOutputTokens(0); err == nil {
		t.Error("MaxOutputTokens(0) expected error")
	}
	if _, err := MaxOutputTokens(-5); err == nil {
		t.Error("MaxOutputTokens(-5) expected error")
	}
}

func TestPenaltyBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"min", -2, false},
		{"zero", 0, false},
		{"max", 2, false},
		{"below min", -2.5, true},
		{"above max", 2.5, true},
	}

	for _, tt := range tests {
		t.Run("frequency/"+tt.name, func(t *testing.T) {
			_, err := FrequencyPenalty(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FrequencyPenalty(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
		t.Run("presence/"+tt.name, func(t *testing.T) {
			_, err := PresencePenalty(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PresencePenalty(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestToolChoicePolicies(t *testing.T) {
	for _, policy := range []ToolChoicePolicy{ToolChoiceAuto, ToolChoiceNone, ToolChoiceRequired} {
		if _, err := ToolChoice(policy); err != nil {
			t.Errorf("ToolChoice(%q) error = %v", policy, err)
		}
	}
	if _, err := ToolChoice("sometimes"); err == nil {
		t.Error("ToolChoice(\"sometimes\") expected error")
	}
}

func TestMaxToolCallsBounds(t *testing.T) {
	if _, err := MaxToolCalls(0); err != nil {
		t.Errorf("MaxToolCalls(0) error = %v", err)
	}
	if _, err := MaxToolCalls(-1); err == nil {
		t.Error("MaxToolCalls(-1) expected error")
	}
}

func TestApplyParamsLastWins(t *testing.T) {
	first, err := Temperature(0.7)
	if err != nil {
		t.Fatalf("Temperature(0.7) error = %v", err)
	}
	second, err := Temperature(1.2)
	if err != nil {
		t.Fatalf("Temperature(1.2) error = %v", err)
	}

	p := applyParams([]Param{first, second})
	if p.Temperature == nil || *p.Temperature != 1.2 {
		t.Errorf("Temperature = %v, want 1.2", p.Temperature)
	}
}

func TestApplyParamsDeterministic(t *testing.T) {
	temp, _ := Temperature(0.5)
	topP, _ := TopP(0.9)
	tokens, _ := MaxOutputTokens(256)
	params := []Param{temp, topP, tokens}

	first := applyParams(params)
	second := applyParams(params)

	if *first.Temperature != *second.Temperature ||
		*first.TopP != *second.TopP ||
		*first.MaxOutputTokens != *second.MaxOutputTokens {
		t.Errorf("repeated application diverged: %+v vs %+v", first, second)
	}
}

func TestStreamOptionsMerge(t *testing.T) {
	a := StreamOptions(map[string]any{"include_usage": true, "chunk_size": 16})
	b := StreamOptions(map[string]any{"chunk_size": 32})

	p := applyParams([]Param{a, b})
	if got := p.StreamOptions["include_usage"]; got != true {
		t.Errorf("include_usage = %v, want true", got)
	}
	if got := p.StreamOptions["chunk_size"]; got != 32 {
		t.Errorf("chunk_size = %v, want 32 (later value wins)", got)
	}
}

func TestStreamOptionsCopiesBag(t *testing.T) {
	bag := map[string]any{"include_usage": true}
	param := StreamOptions(bag)
	bag["include_usage"] = false

	p := applyParams([]Param{param})
	if got := p.StreamOptions["include_usage"]; got != true {
		t.Errorf("include_usage = %v, caller mutation leaked into param", got)
	}
}

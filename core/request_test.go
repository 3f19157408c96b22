package core

import (
	"errors"
	"testing"
)

func TestBuildMinimalRequest(t *testing.T) {
	req, err := NewRequest("loom-1-pro").User("hello").Build()
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	if req.Model != "loom-1-pro" {
		t.Errorf("Model = %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser {
		t.Errorf("Messages = %+v, want one user message", req.Messages)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name    string
		builder *RequestBuilder
	}{
		{"empty model", NewRequest("").User("hi")},
		{"no messages", NewRequest("loom-1-pro")},
		{"empty message text", NewRequest("loom-1-pro").User("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Build error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestBuildAllowsEmptyMessagesWithPreviousResponse(t *testing.T) {
	req, err := NewRequest("loom-1-pro").PreviousResponse("resp-42").Build()
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	if req.PreviousResponseID != "resp-42" {
		t.Errorf("PreviousResponseID = %q", req.PreviousResponseID)
	}
	if len(req.Messages) != 0 {
		t.Errorf("Messages = %+v, want empty", req.Messages)
	}
}

func TestBuildAppliesParamsInOrder(t *testing.T) {
	low, _ := Temperature(0.2)
	high, _ := Temperature(1.5)

	req, err := NewRequest("loom-1-pro").User("hi").Params(low, high).Build()
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	if req.Params.Temperature == nil || *req.Params.Temperature != 1.5 {
		t.Errorf("Temperature = %v, want 1.5", req.Params.Temperature)
	}
}

func TestBuildRejectsInvalidTool(t *testing.T) {
	_, err := NewRequest("loom-1-pro").
		User("hi").
		Tools(Tool{Kind: ToolKindFunction}).
		Build()
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Build error = %v, want ErrInvalidValue", err)
	}
}

func TestBuildSnapshotsBuilderState(t *testing.T) {
	builder := NewRequest("loom-1-pro").User("first")

	req1, err := builder.Build()
	if err != nil {
		t.Fatalf("first Build error = %v", err)
	}

	builder.User("second")
	req2, err := builder.Build()
	if err != nil {
		t.Fatalf("second Build error = %v", err)
	}

	if len(req1.Messages) != 1 {
		t.Errorf("first request grew to %d messages after later mutation", len(req1.Messages))
	}
	if len(req2.Messages) != 2 {
		t.Errorf("second request has %d messages, want 2", len(req2.Messages))
	}
}

func TestBuildReportsFirstDeferredError(t *testing.T) {
	_, err := NewRequest("loom-1-pro").User("").System("valid").Build()
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Build error = %v, want ErrInvalidValue", err)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	if apiErr.Field != "text" {
		t.Errorf("Field = %q, want %q", apiErr.Field, "text")
	}
}

package tokenizer

import "testing"

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterUnknownModelFallsBack(t *testing.T) {
	counter, resolvedName, err := NewCounter(Config{Model: "mystery-model-9000"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if resolvedName != defaultEncodingName {
		t.Fatalf("expected fallback encoding %s, got %s", defaultEncodingName, resolvedName)
	}
	if counter.Name() != defaultEncodingName {
		t.Fatalf("expected counter name %s, got %s", defaultEncodingName, counter.Name())
	}
}

func TestNewCounterEmptyModelUsesDefault(t *testing.T) {
	_, model, err := NewCounter(Config{})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultModel {
		t.Fatalf("expected default model %s, got %s", defaultModel, model)
	}
}

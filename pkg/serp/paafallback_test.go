package serp

import (
	"context"
	"testing"
)

type stubLLM struct {
	response string
	err      error
}

func (s stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestLLMPAAFallback_ParsesQuestions(t *testing.T) {
	llm := stubLLM{response: `[{"question":"Ile kosztuje rozwód w Warszawie?","answer":"Zależy od sądu."}]`}
	fallback := LLMPAAFallback(llm)
	entries := fallback(context.Background(), "rozwód warszawa", []string{"snippet one"})
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Question != "Ile kosztuje rozwód w Warszawie?" {
		t.Errorf("Question = %q", entries[0].Question)
	}
	if entries[0].Source != "llm_fallback" {
		t.Errorf("Source = %q, want llm_fallback", entries[0].Source)
	}
}

func TestLLMPAAFallback_NoSnippetsReturnsNil(t *testing.T) {
	fallback := LLMPAAFallback(stubLLM{response: "irrelevant"})
	if entries := fallback(context.Background(), "kw", nil); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestLLMPAAFallback_UnparsableResponseReturnsNil(t *testing.T) {
	fallback := LLMPAAFallback(stubLLM{response: "not json"})
	if entries := fallback(context.Background(), "kw", []string{"x"}); entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

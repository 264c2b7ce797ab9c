package causal

import (
	"context"
	"errors"
	"testing"

	"github.com/brajen/contentbrief/pkg/brief"
)

type stubLLM struct {
	response string
	err      error
}

func (s stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestExtract_ParsesAndDedupes(t *testing.T) {
	response := `[
		{"cause": "brak dokumentów", "effect": "opóźnienie rozprawy", "type": "causes", "confidence": 0.8},
		{"cause": "brak dokumentów", "effect": "opóźnienie rozprawy", "type": "causes", "confidence": 0.9}
	]`
	primary := stubLLM{response: response}
	got := Extract(context.Background(), primary, nil, "rozwód", []string{"tekst konkurencji"}, 15)
	if len(got) != 1 {
		t.Fatalf("Extract() returned %d triplets, want 1 after dedup", len(got))
	}
}

func TestExtract_FallsBackToSecondary(t *testing.T) {
	primary := stubLLM{err: errors.New("boom")}
	secondary := stubLLM{response: `[{"cause":"a","effect":"b","type":"causes","confidence":0.7}]`}
	got := Extract(context.Background(), primary, secondary, "rozwód", []string{"tekst"}, 15)
	if len(got) != 1 {
		t.Fatalf("Extract() with fallback returned %d triplets, want 1", len(got))
	}
}

func TestExtract_BothFailReturnsEmpty(t *testing.T) {
	primary := stubLLM{err: errors.New("boom")}
	secondary := stubLLM{err: errors.New("boom too")}
	got := Extract(context.Background(), primary, secondary, "rozwód", []string{"tekst"}, 15)
	if got != nil {
		t.Errorf("Extract() with both failing = %v, want nil", got)
	}
}

func TestDetectChains_LinksCauseToEffect(t *testing.T) {
	triplets := []brief.CausalTriplet{
		{Cause: "brak dokumentów formalnych", Effect: "opóźnienie rozprawy sądowej"},
		{Cause: "opóźnienie rozprawy sądowej", Effect: "wyższe koszty prawnika"},
	}
	got := detectChains(triplets)
	if !got[0].IsChain || !got[1].IsChain {
		t.Errorf("detectChains() = %+v, want both marked is_chain", got)
	}
}

func TestSummarize_SplitsChainsAndSingles(t *testing.T) {
	triplets := []brief.CausalTriplet{
		{Cause: "a", Effect: "b", IsChain: true},
		{Cause: "c", Effect: "d", IsChain: false},
	}
	summary := Summarize(triplets)
	if len(summary.Chains) != 1 || len(summary.Singles) != 1 {
		t.Errorf("Summarize() = %+v, want 1 chain and 1 single", summary)
	}
}

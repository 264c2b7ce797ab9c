package gap

import (
	"testing"

	"github.com/brajen/contentbrief/pkg/brief"
)

func TestAnalyze_EmptyCorpusFails(t *testing.T) {
	got := Analyze("", nil, nil, nil, nil)
	if got.Status != "FAILED" {
		t.Errorf("Analyze(empty) status = %q, want FAILED", got.Status)
	}
}

func TestAnalyze_UnansweredPAAQuestion(t *testing.T) {
	corpus := "Ten artykuł nie wspomina o niczym związanym z pytaniem."
	paa := []brief.PAAEntry{{Question: "Ile kosztuje adwokat rozwodowy w Warszawie?"}}
	got := Analyze(corpus, nil, paa, nil, nil)
	if len(got.PAAUnanswered) == 0 {
		t.Error("Analyze() found no PAA gap for clearly uncovered question")
	}
}

func TestAnalyze_DepthMissingSignals(t *testing.T) {
	corpus := "To jest bardzo ogólny tekst bez żadnych konkretów ani liczb."
	got := Analyze(corpus, nil, nil, nil, nil)
	if len(got.DepthMissing) == 0 {
		t.Error("Analyze() found no depth gaps for a generic, signal-free corpus")
	}
}

func TestToContentGaps_FailedStatusShortCircuits(t *testing.T) {
	result := Result{Status: "FAILED"}
	cg := ToContentGaps(result)
	if cg.Status != "FAILED" || cg.TotalGaps != 0 {
		t.Errorf("ToContentGaps(failed) = %+v, want empty FAILED block", cg)
	}
}

package compliance

import (
	"testing"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang/pl"
)

func TestParseKeywordStateString(t *testing.T) {
	state := parseKeywordStateString("rozwód w warszawie: 1-2x\nprawnik: 1x\nrozwód: 1-5")

	if b := state["rozwód w warszawie"]; b.Min != 1 || b.Max != 2 {
		t.Errorf("rozwód w warszawie = %+v, want {1 2}", b)
	}
	if b := state["prawnik"]; b.Min != 1 || b.Max != 1 {
		t.Errorf("prawnik = %+v, want {1 1}", b)
	}
	if b := state["rozwód"]; b.Min != 1 || b.Max != 5 {
		t.Errorf("rozwód = %+v, want {1 5}", b)
	}
}

func TestParseKeywordState_BareKeyword(t *testing.T) {
	state := parseKeywordStateString("kredyt hipoteczny")
	b := state["kredyt hipoteczny"]
	if b.Min != 1 || b.Max != 99 {
		t.Errorf("bare keyword = %+v, want {1 99}", b)
	}
}

func TestReport_SeedScenario3And4(t *testing.T) {
	asset := pl.New()

	state := brief.KeywordState{
		"rozwód w warszawie": {Min: 1, Max: 2},
		"prawnik":             {Min: 1, Max: 1},
		"rozwód":              {Min: 1, Max: 5},
	}

	text1 := "Rozwód w Warszawie to sprawa dla prawnika. Rozwód kosztuje."
	reports1, next1 := Report(asset, text1, state)

	actuals := map[string]int{}
	for _, r := range reports1 {
		actuals[r.Keyword] = r.ActualInBatch
	}
	if actuals["rozwód w warszawie"] != 1 {
		t.Errorf("batch1 rozwód w warszawie actual = %d, want 1", actuals["rozwód w warszawie"])
	}
	if actuals["prawnik"] != 1 {
		t.Errorf("batch1 prawnik actual = %d, want 1", actuals["prawnik"])
	}
	if actuals["rozwód"] != 2 {
		t.Errorf("batch1 rozwód actual = %d, want 2", actuals["rozwód"])
	}

	if b := next1["rozwód"]; b.Min != 0 || b.Max != 3 {
		t.Errorf("next state rozwód = %+v, want {0 3}", b)
	}
	if b := next1["prawnik"]; b.Min != 0 || b.Max != 0 {
		t.Errorf("next state prawnik = %+v, want {0 0}", b)
	}
	if b := next1["rozwód w warszawie"]; b.Min != 0 || b.Max != 1 {
		t.Errorf("next state rozwód w warszawie = %+v, want {0 1}", b)
	}

	text2 := "Rozwód rozwód rozwód rozwód."
	reports2, _ := Report(asset, text2, next1)

	var rozwodReport, prawnikReport KeywordReport
	for _, r := range reports2 {
		switch r.Keyword {
		case "rozwód":
			rozwodReport = r
		case "prawnik":
			prawnikReport = r
		}
	}
	if rozwodReport.ActualInBatch != 4 || rozwodReport.Status != "OVER" {
		t.Errorf("batch2 rozwód = %+v, want actual 4 status OVER", rozwodReport)
	}
	if prawnikReport.ActualInBatch != 0 || prawnikReport.Status != "OK" {
		t.Errorf("batch2 prawnik = %+v, want actual 0 status OK", prawnikReport)
	}
}

func TestCountExact(t *testing.T) {
	if got := CountExact("Rozwód Warszawa, rozwód i separacja", "rozwód"); got != 2 {
		t.Errorf("CountExact = %d, want 2", got)
	}
	if got := CountExact("anything", ""); got != 0 {
		t.Errorf("CountExact with empty keyword = %d, want 0", got)
	}
}

func TestTokenSetRatio_IdenticalStrings(t *testing.T) {
	if r := tokenSetRatio("rozwód warszawa", "rozwód warszawa"); r != 100 {
		t.Errorf("tokenSetRatio(identical) = %d, want 100", r)
	}
}

func TestTokenSetRatio_ReorderedTokens(t *testing.T) {
	r := tokenSetRatio("warszawa rozwód", "rozwód warszawa")
	if r != 100 {
		t.Errorf("tokenSetRatio(reordered) = %d, want 100", r)
	}
}

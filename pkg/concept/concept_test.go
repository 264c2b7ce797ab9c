package concept

import (
	"testing"

	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/lang/pl"
)

func TestExtract_DropsLowFrequencyChunks(t *testing.T) {
	asset := pl.New()
	sources := []brief.Source{
		{Text: "Podział majątku wspólnego to trudny temat. Zupełnie inna sprawa."},
	}
	got := Extract(asset, sources, "")
	for _, c := range got {
		if c.Freq < 2 {
			t.Errorf("Extract() kept low-frequency concept %+v", c)
		}
	}
}

func TestExtract_RepeatedChunkSurfaces(t *testing.T) {
	asset := pl.New()
	sources := []brief.Source{
		{Text: "Podział majątku wspólnego bywa sporny. Podział majątku wspólnego wymaga zgody."},
		{Text: "Podział majątku wspólnego to proces sądowy."},
	}
	got := Extract(asset, sources, "")
	if len(got) == 0 {
		t.Fatal("Extract() returned no concepts for repeated chunk")
	}
}

func TestSummarize_Partitions(t *testing.T) {
	concepts := []brief.ConceptEntity{
		{Display: "a", Importance: 0.4, Sources: map[int]bool{0: true, 1: true}},
		{Display: "b", Importance: 0.25, Sources: map[int]bool{0: true}},
		{Display: "c", Importance: 0.1, Sources: map[int]bool{0: true}},
	}
	summary := Summarize(concepts)
	if len(summary.MustCover) != 1 || summary.MustCover[0] != "a" {
		t.Errorf("MustCover = %v, want [a]", summary.MustCover)
	}
	if len(summary.ShouldCover) != 1 || summary.ShouldCover[0] != "b" {
		t.Errorf("ShouldCover = %v, want [b]", summary.ShouldCover)
	}
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSerpOutcome_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(SerpRequests.WithLabelValues("serpapi", "ok"))
	RecordSerpOutcome("serpapi", "ok")
	after := testutil.ToFloat64(SerpRequests.WithLabelValues("serpapi", "ok"))
	if after != before+1 {
		t.Errorf("SerpRequests = %f, want %f", after, before+1)
	}
}

func TestRecordScrapeOutcome_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(ScrapeRequests.WithLabelValues("ok"))
	RecordScrapeOutcome("ok")
	after := testutil.ToFloat64(ScrapeRequests.WithLabelValues("ok"))
	if after != before+1 {
		t.Errorf("ScrapeRequests = %f, want %f", after, before+1)
	}
}

func TestRecordAnalyzeDuration_ObservesHistogram(t *testing.T) {
	countBefore := testutil.CollectAndCount(AnalyzeDuration)
	RecordAnalyzeDuration(250 * time.Millisecond)
	countAfter := testutil.CollectAndCount(AnalyzeDuration)
	if countAfter != countBefore {
		t.Errorf("histogram series count changed from %d to %d, want unchanged", countBefore, countAfter)
	}
}

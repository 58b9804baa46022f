package report

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestReportCounts(t *testing.T) {
	r := New()
	r.Addf(KindMalformedInput, StageExtract, "1:1", "Broken", "missing bounding box")
	r.Addf(KindMalformedInput, StageExtract, "1:2", "Broken 2", "missing bounding box")
	r.Addf(KindDepthExceeded, StageExtract, "9:9", "Deep", "subtree truncated at depth 30")

	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := r.Count(KindMalformedInput); got != 2 {
		t.Errorf("Count(malformed) = %d, want 2", got)
	}
	if got := r.Count(KindEmissionFailure); got != 0 {
		t.Errorf("Count(emission) = %d, want 0", got)
	}
}

func TestDiagnosticsSorted(t *testing.T) {
	r := New()
	// Added out of stage order on purpose.
	r.Addf(KindEmissionFailure, StageEmit, "5:1", "Card", "diamond gradient approximated as radial")
	r.Addf(KindUnsupportedNode, StageExtract, "2:4", "Widget", "unknown node type STICKY")
	r.Addf(KindResolutionExhausted, StageVisual, "3:1", "Button", "variable VariableID:9:9 not in table")
	r.Addf(KindMalformedInput, StageExtract, "1:1", "Ghost", "missing bounding box")

	diags := r.Diagnostics()
	wantStages := []string{StageExtract, StageExtract, StageVisual, StageEmit}
	for i, d := range diags {
		if d.Stage != wantStages[i] {
			t.Errorf("Diagnostics()[%d].Stage = %s, want %s", i, d.Stage, wantStages[i])
		}
	}
	if diags[0].NodeID != "1:1" || diags[1].NodeID != "2:4" {
		t.Errorf("extract diagnostics not ordered by node ID: %v, %v", diags[0].NodeID, diags[1].NodeID)
	}
}

func TestReportConcurrentAdd(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Addf(KindResolutionExhausted, StageVisual, "1:1", "n", "unresolved")
		}()
	}
	wg.Wait()
	if got := r.Len(); got != 50 {
		t.Errorf("Len() after concurrent adds = %d, want 50", got)
	}
}

func TestReportJSON(t *testing.T) {
	r := New()
	r.Addf(KindDepthExceeded, StageExtract, "7:7", "Deep Frame", "subtree truncated at depth 30")
	r.Finish()

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		RunID       string         `json:"runId"`
		Counts      map[string]int `json:"counts"`
		Diagnostics []struct {
			Kind   string `json:"kind"`
			Stage  string `json:"stage"`
			NodeID string `json:"nodeId"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.RunID == "" {
		t.Errorf("report JSON has empty runId")
	}
	if decoded.Counts["depth-exceeded"] != 1 {
		t.Errorf("counts = %v, want depth-exceeded: 1", decoded.Counts)
	}
	if len(decoded.Diagnostics) != 1 || decoded.Diagnostics[0].Kind != "depth-exceeded" {
		t.Errorf("diagnostics = %+v, want one depth-exceeded entry", decoded.Diagnostics)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Kind: KindUnsupportedNode, Stage: StageExtract, NodeID: "2:1", NodeName: "Widget", Detail: "unknown node type STICKY"}
	s := d.String()
	for _, want := range []string{"extract", "unsupported-node-type", "2:1", "Widget"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}

	bare := Diagnostic{Kind: KindEmissionFailure, Stage: StageEmit, Detail: "no markup dialect"}
	if s := bare.String(); strings.Contains(s, "node ") {
		t.Errorf("String() without node = %q, should omit node clause", s)
	}
}

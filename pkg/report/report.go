// Package report collects the diagnostics a generation run accumulates as
// it degrades around input defects. Every stage records what it skipped or
// approximated here instead of failing; only a document without a root node
// aborts a run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stage names used in diagnostics, in pipeline order.
const (
	StageExtract  = "extract"
	StageLayout   = "layout"
	StageVisual   = "visual"
	StageTokens   = "tokens"
	StageSemantic = "semantic"
	StageEmit     = "emit"
	StageAssets   = "assets"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	// KindMalformedInput marks a node whose required properties are
	// missing or inconsistent; the node was skipped and a placeholder
	// recorded in its place.
	KindMalformedInput Kind = iota + 1

	// KindUnsupportedNode marks a node type outside the supported set;
	// the node was emitted as a neutral container.
	KindUnsupportedNode

	// KindResolutionExhausted marks a variable or token reference that
	// no resolution step could satisfy; a neutral fallback value was
	// substituted.
	KindResolutionExhausted

	// KindDepthExceeded marks a subtree truncated at the traversal
	// depth limit.
	KindDepthExceeded

	// KindEmissionFailure marks a style or structure that the target
	// dialect cannot express exactly; the nearest approximation was
	// emitted.
	KindEmissionFailure
)

var kindNames = map[Kind]string{
	KindMalformedInput:      "malformed-input",
	KindUnsupportedNode:     "unsupported-node-type",
	KindResolutionExhausted: "resolution-exhausted",
	KindDepthExceeded:       "depth-exceeded",
	KindEmissionFailure:     "emission-failure",
}

// String returns the kind's wire name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", k)
}

// MarshalText renders the kind as its wire name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a single recorded defect: which stage saw it, on which
// node, and what was done about it.
type Diagnostic struct {
	Kind     Kind   `json:"kind"`
	Stage    string `json:"stage"`
	NodeID   string `json:"nodeId,omitempty"`
	NodeName string `json:"nodeName,omitempty"`
	Detail   string `json:"detail"`
}

// String renders the diagnostic in a single log-friendly line.
func (d Diagnostic) String() string {
	if d.NodeID == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Stage, d.Kind, d.Detail)
	}
	return fmt.Sprintf("[%s] %s: node %s (%s): %s", d.Stage, d.Kind, d.NodeID, d.NodeName, d.Detail)
}

// Report accumulates diagnostics across a run. Safe for concurrent use;
// stages that fan out across subtrees share one report.
type Report struct {
	RunID     string
	StartedAt time.Time

	mu         sync.Mutex
	finishedAt time.Time
	diags      []Diagnostic
}

// New starts an empty report with a fresh run ID.
func New() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Add records one diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.mu.Lock()
	r.diags = append(r.diags, d)
	r.mu.Unlock()
}

// Addf records a diagnostic with a formatted detail message.
func (r *Report) Addf(kind Kind, stage, nodeID, nodeName, format string, args ...any) {
	r.Add(Diagnostic{
		Kind:     kind,
		Stage:    stage,
		NodeID:   nodeID,
		NodeName: nodeName,
		Detail:   fmt.Sprintf(format, args...),
	})
}

// Finish stamps the end of the run. Further Adds are still accepted.
func (r *Report) Finish() {
	r.mu.Lock()
	r.finishedAt = time.Now()
	r.mu.Unlock()
}

// Len returns the number of recorded diagnostics.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// Count returns the number of diagnostics of one kind.
func (r *Report) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Diagnostics returns a sorted copy of the recorded diagnostics. Sorting
// keys are stage order, node ID, kind, then detail, so output is identical
// across runs even when stages fan out across goroutines.
func (r *Report) Diagnostics() []Diagnostic {
	r.mu.Lock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if sa, sb := stageRank(a.Stage), stageRank(b.Stage); sa != sb {
			return sa < sb
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Detail < b.Detail
	})
	return out
}

var stageOrder = map[string]int{
	StageExtract:  0,
	StageLayout:   1,
	StageVisual:   2,
	StageTokens:   3,
	StageSemantic: 4,
	StageEmit:     5,
	StageAssets:   6,
}

func stageRank(stage string) int {
	if n, ok := stageOrder[stage]; ok {
		return n
	}
	return len(stageOrder)
}

// jsonReport is the serialized artifact shape.
type jsonReport struct {
	RunID       string         `json:"runId"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  *time.Time     `json:"finishedAt,omitempty"`
	DurationMS  int64          `json:"durationMs,omitempty"`
	Counts      map[string]int `json:"counts"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
}

// MarshalJSON renders the report artifact: run metadata, per-kind counts,
// and the sorted diagnostic list.
func (r *Report) MarshalJSON() ([]byte, error) {
	diags := r.Diagnostics()
	counts := make(map[string]int)
	for _, d := range diags {
		counts[d.Kind.String()]++
	}

	r.mu.Lock()
	finished := r.finishedAt
	r.mu.Unlock()

	out := jsonReport{
		RunID:       r.RunID,
		StartedAt:   r.StartedAt,
		Counts:      counts,
		Diagnostics: diags,
	}
	if !finished.IsZero() {
		out.FinishedAt = &finished
		out.DurationMS = finished.Sub(r.StartedAt).Milliseconds()
	}
	return json.Marshal(out)
}

// Render writes the indented JSON artifact to w.
func (r *Report) Render(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

package figma

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoRoot is returned when a parsed document has no usable root node.
// This is the only input defect the pipeline cannot degrade around.
var ErrNoRoot = errors.New("document has no root node")

// ParseFile decodes a design document from JSON. The document root must be
// present; every other defect is tolerated here and surfaced later as
// diagnostics by the stages that encounter it.
func ParseFile(r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if f.Document.ID == "" && f.Document.Type == "" && len(f.Document.Children) == 0 {
		return nil, ErrNoRoot
	}
	return &f, nil
}

// LoadFile reads and parses a design document from disk.
func LoadFile(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer r.Close()

	f, err := ParseFile(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// variablesEnvelope is the REST shape of a standalone variables export:
// collections and variables nested under a "meta" object.
type variablesEnvelope struct {
	Meta struct {
		Collections map[string]VariableCollection `json:"variableCollections"`
		Variables   map[string]Variable           `json:"variables"`
	} `json:"meta"`
}

// ParseVariables decodes a variable table from JSON. Both the bare table
// shape ({"collections":…,"variables":…}) and the REST envelope shape
// ({"meta":{"variableCollections":…,"variables":…}}) are accepted.
func ParseVariables(r io.Reader) (*VariableTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read variables: %w", err)
	}

	var t VariableTable
	if err := json.Unmarshal(data, &t); err == nil && len(t.Variables) > 0 {
		return &t, nil
	}

	var env variablesEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse variables: %w", err)
	}
	return &VariableTable{
		Collections: env.Meta.Collections,
		Variables:   env.Meta.Variables,
	}, nil
}

// LoadVariables reads and parses a standalone variable table from disk.
func LoadVariables(path string) (*VariableTable, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open variables: %w", err)
	}
	defer r.Close()

	t, err := ParseVariables(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

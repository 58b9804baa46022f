package figma

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errIs   error
	}{
		{
			name:    "minimal document",
			input:   `{"name":"Demo","document":{"id":"0:0","type":"DOCUMENT","children":[]}}`,
			wantErr: false,
		},
		{
			name:    "document with children only",
			input:   `{"name":"Demo","document":{"children":[{"id":"1:1","type":"FRAME"}]}}`,
			wantErr: false,
		},
		{
			name:    "missing root",
			input:   `{"name":"Demo"}`,
			wantErr: true,
			errIs:   ErrNoRoot,
		},
		{
			name:    "empty object",
			input:   `{}`,
			wantErr: true,
			errIs:   ErrNoRoot,
		},
		{
			name:    "malformed JSON",
			input:   `{"name":"Demo","document":`,
			wantErr: true,
		},
		{
			name:    "not JSON at all",
			input:   `hello world`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFile(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.errIs != nil && !errors.Is(err, tt.errIs) {
				t.Errorf("ParseFile() error = %v, want %v", err, tt.errIs)
			}
			if !tt.wantErr && got == nil {
				t.Errorf("ParseFile() returned nil file without error")
			}
		})
	}
}

func TestParseFileEmbeddedVariables(t *testing.T) {
	input := `{
		"name": "Demo",
		"document": {"id": "0:0", "type": "DOCUMENT", "children": []},
		"variables": {
			"collections": {
				"c1": {"id": "c1", "name": "Colors", "modes": [{"modeId": "m1", "name": "Light"}], "defaultModeId": "m1"}
			},
			"variables": {
				"v1": {"id": "v1", "name": "color/brand", "variableCollectionId": "c1", "resolvedType": "COLOR",
					"valuesByMode": {"m1": {"r": 1, "g": 0, "b": 0, "a": 1}}}
			}
		}
	}`

	f, err := ParseFile(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if f.Variables == nil {
		t.Fatalf("ParseFile() dropped embedded variables")
	}
	val, ok := f.Variables.ValueFor("v1", "")
	if !ok {
		t.Fatalf("ValueFor(v1) not found")
	}
	if val.Kind != ValueColor || val.Color == nil || val.Color.R != 1 {
		t.Errorf("ValueFor(v1) = %+v, want red color", val)
	}
}

func TestParseVariables(t *testing.T) {
	bare := `{
		"collections": {"c1": {"id": "c1", "name": "Colors", "modes": [{"modeId": "m1", "name": "Light"}], "defaultModeId": "m1"}},
		"variables": {"v1": {"id": "v1", "name": "spacing/md", "variableCollectionId": "c1", "resolvedType": "FLOAT",
			"valuesByMode": {"m1": 16}}}
	}`
	envelope := `{
		"status": 200,
		"meta": {
			"variableCollections": {"c1": {"id": "c1", "name": "Colors", "modes": [{"modeId": "m1", "name": "Light"}], "defaultModeId": "m1"}},
			"variables": {"v1": {"id": "v1", "name": "spacing/md", "variableCollectionId": "c1", "resolvedType": "FLOAT",
				"valuesByMode": {"m1": 16}}}
		}
	}`

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "bare table shape", input: bare, wantErr: false},
		{name: "REST envelope shape", input: envelope, wantErr: false},
		{name: "malformed", input: `{"meta": [`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVariables(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseVariables() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			val, ok := got.ValueFor("v1", "")
			if !ok || val.Kind != ValueNumber || val.Num != 16 {
				t.Errorf("ValueFor(v1) = %+v ok=%v, want number 16", val, ok)
			}
		})
	}
}

package figma

import (
	"encoding/json"
	"fmt"
	"sort"
)

// VariableTable holds the design variable collections of a file, keyed for
// lookup by variable ID. Variables carry per-mode values; collections define
// which modes exist and which one is the default.
type VariableTable struct {
	Collections map[string]VariableCollection `json:"collections"`
	Variables   map[string]Variable           `json:"variables"`
}

// VariableCollection groups variables that share a set of modes, such as a
// color palette with light and dark values.
type VariableCollection struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Modes         []VariableMode `json:"modes"`
	DefaultModeID string         `json:"defaultModeId"`
}

// VariableMode is a named axis value within a collection, for example
// "Light" or "Dark".
type VariableMode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

// Variable is a single named design value with one entry per mode of its
// collection. Values may alias other variables; resolution follows the
// alias chain.
type Variable struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	CollectionID  string                   `json:"variableCollectionId"`
	ResolvedType  string                   `json:"resolvedType"` // COLOR, FLOAT, STRING, BOOLEAN
	ValuesByMode  map[string]VariableValue `json:"valuesByMode"`
	Description   string                   `json:"description,omitempty"`
	HiddenFromPub bool                     `json:"hiddenFromPublishing,omitempty"`
}

// VariableValue is one mode's value of a variable: a color, a number, a
// string, a boolean, or an alias to another variable. Exactly one of the
// fields is set; Kind reports which.
type VariableValue struct {
	Kind  ValueKind
	Color *Color
	Num   float64
	Str   string
	Bool  bool
	Alias *VariableAlias
}

// ValueKind discriminates the variants of VariableValue.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueColor
	ValueNumber
	ValueString
	ValueBool
	ValueAlias
)

// String returns the kind name in source-format casing.
func (k ValueKind) String() string {
	switch k {
	case ValueColor:
		return "COLOR"
	case ValueNumber:
		return "FLOAT"
	case ValueString:
		return "STRING"
	case ValueBool:
		return "BOOLEAN"
	case ValueAlias:
		return "ALIAS"
	default:
		return "INVALID"
	}
}

// UnmarshalJSON decodes the source format's untagged union: aliases are
// objects with a "type" of VARIABLE_ALIAS, colors are objects with r/g/b
// channels, and the scalar kinds are bare JSON scalars.
func (v *VariableValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case float64:
		v.Kind, v.Num = ValueNumber, t
		return nil
	case string:
		v.Kind, v.Str = ValueString, t
		return nil
	case bool:
		v.Kind, v.Bool = ValueBool, t
		return nil
	case map[string]any:
		if t["type"] == "VARIABLE_ALIAS" {
			var alias VariableAlias
			if err := json.Unmarshal(data, &alias); err != nil {
				return err
			}
			v.Kind, v.Alias = ValueAlias, &alias
			return nil
		}
		if _, hasR := t["r"]; hasR {
			var c Color
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			v.Kind, v.Color = ValueColor, &c
			return nil
		}
	}
	return fmt.Errorf("variable value: unrecognized shape %s", data)
}

// MarshalJSON re-encodes the union in the source format's shape.
func (v VariableValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueColor:
		return json.Marshal(v.Color)
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueString:
		return json.Marshal(v.Str)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueAlias:
		return json.Marshal(v.Alias)
	default:
		return nil, fmt.Errorf("variable value: cannot marshal kind %s", v.Kind)
	}
}

// maxAliasHops bounds alias-chain traversal so that cyclic tables terminate.
const maxAliasHops = 16

// ValueFor resolves a variable to its concrete value under the named mode.
// When modeName is empty or the collection has no mode with that name, the
// collection's default mode applies. Alias chains are followed until a
// concrete value is found; a broken or cyclic chain returns ok=false.
func (t *VariableTable) ValueFor(id, modeName string) (VariableValue, bool) {
	if t == nil {
		return VariableValue{}, false
	}
	for hop := 0; hop < maxAliasHops; hop++ {
		vr, ok := t.Variables[id]
		if !ok {
			return VariableValue{}, false
		}
		modeID := t.modeID(vr.CollectionID, modeName)
		val, ok := vr.ValuesByMode[modeID]
		if !ok {
			// Mode missing on this variable: fall back to its
			// collection default before giving up.
			val, ok = vr.ValuesByMode[t.modeID(vr.CollectionID, "")]
			if !ok {
				return VariableValue{}, false
			}
		}
		if val.Kind != ValueAlias {
			return val, true
		}
		id = val.Alias.ID
	}
	return VariableValue{}, false
}

// NameOf returns the declared name of a variable, or "" when unknown.
func (t *VariableTable) NameOf(id string) string {
	if t == nil {
		return ""
	}
	return t.Variables[id].Name
}

// ModeNames returns the mode names of every collection, deduplicated, with
// default modes first. Collections are visited in sorted-ID order so the
// result is stable across runs regardless of map iteration.
func (t *VariableTable) ModeNames() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.Collections))
	for id := range t.Collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, id := range ids {
		coll := t.Collections[id]
		for _, m := range coll.Modes {
			if m.ModeID == coll.DefaultModeID {
				add(m.Name)
			}
		}
	}
	for _, id := range ids {
		for _, m := range t.Collections[id].Modes {
			add(m.Name)
		}
	}
	return names
}

// modeID maps a mode name to the collection's mode ID, defaulting to the
// collection's default mode when the name is empty or unknown.
func (t *VariableTable) modeID(collectionID, modeName string) string {
	coll, ok := t.Collections[collectionID]
	if !ok {
		return ""
	}
	if modeName != "" {
		for _, m := range coll.Modes {
			if m.Name == modeName {
				return m.ModeID
			}
		}
	}
	return coll.DefaultModeID
}

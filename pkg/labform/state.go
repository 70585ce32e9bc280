package labform

import (
	"encoding/json"
	"sort"
)

// FormState is the in-progress field -> value record of one request.
// Writes go through Apply, so every stored value has passed ValidateField.
type FormState struct {
	values map[Field]any
}

func NewFormState() FormState {
	return FormState{values: map[Field]any{}}
}

// FromMap builds a FormState from raw data without validating it. It exists
// for whole-form checks of data that did not come from a session.
func FromMap(m map[string]any) FormState {
	s := NewFormState()
	for k, v := range m {
		s.values[Field(k)] = v
	}
	return s
}

// Apply writes a validated value, replacing any previous one.
func (s *FormState) Apply(v Validated) error {
	if v.IsZero() {
		return ErrUnvalidated
	}
	if s.values == nil {
		s.values = map[Field]any{}
	}
	s.values[v.field] = cloneValue(v.value)
	return nil
}

// Delete removes a field. Absence is always a valid state.
func (s *FormState) Delete(f Field) bool {
	if _, ok := s.values[f]; !ok {
		return false
	}
	delete(s.values, f)
	return true
}

func (s FormState) Get(f Field) (any, bool) {
	v, ok := s.values[f]
	return v, ok
}

func (s FormState) Len() int {
	return len(s.values)
}

// Fields lists present fields: schema fields in schema order, then unknown
// fields sorted by name.
func (s FormState) Fields() []Field {
	out := make([]Field, 0, len(s.values))
	for f := range s.values {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iKnown := fieldOrder[out[i]]
		oj, jKnown := fieldOrder[out[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// Clone returns a deep copy. Pass-through fields may hold JSON-shaped
// slices and maps, which are copied too.
func (s FormState) Clone() FormState {
	c := FormState{values: make(map[Field]any, len(s.values))}
	for k, v := range s.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

// AsMap returns a deep copy keyed by field name.
func (s FormState) AsMap() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[string(k)] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

func (s FormState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.AsMap())
}

func (s *FormState) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = FromMap(m)
	return nil
}

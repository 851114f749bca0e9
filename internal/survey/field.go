// Package survey provides the question definitions, answer validation rules
// and record types for peanut-survey.
package survey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TimestampColumn is the first column of every data file.
const TimestampColumn = "Timestamp"

// Kind selects how accepted answer text is converted before it is stored.
type Kind int

const (
	// KindString stores the (normalized) answer text.
	KindString Kind = iota
	// KindInteger stores the answer as a base-10 integer.
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	default:
		return "string"
	}
}

// Value is a captured answer: either an integer or a string.
type Value struct {
	Int   int
	Str   string
	IsInt bool
}

// IntValue returns an integer Value.
func IntValue(n int) Value { return Value{Int: n, IsInt: true} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Str: s} }

// String renders the value the way it is written to a CSV cell.
func (v Value) String() string {
	if v.IsInt {
		return strconv.Itoa(v.Int)
	}
	return v.Str
}

// FieldSpec defines one question. Name doubles as the CSV column header.
type FieldSpec struct {
	Name    string
	Label   string
	Section string
	Rule    Rule
	Kind    Kind
}

// Prompt returns the label shown to the user, annotated with the rule hint.
func (f FieldSpec) Prompt() string {
	label := f.Label
	if label == "" {
		label = f.Name
	}
	if hint := f.Rule.Hint(); hint != "" {
		return fmt.Sprintf("%s [%s]", label, hint)
	}
	return label
}

// Validate runs the field rule against raw answer text.
func (f FieldSpec) Validate(text string) error {
	return f.Rule.Validate(text)
}

// Convert validates text and converts it to the stored value.
func (f FieldSpec) Convert(text string) (Value, error) {
	if err := f.Validate(text); err != nil {
		return Value{}, err
	}
	if m, ok := f.Rule.(MemberOf); ok {
		text = m.Normalize(text)
	}
	if f.Kind == KindInteger {
		n, err := strconv.Atoi(text)
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return IntValue(n), nil
	}
	return StringValue(text), nil
}

// Definition is the ordered, immutable list of questions of a survey.
type Definition struct {
	Title  string
	fields []FieldSpec
}

// NewDefinition checks the field list and returns a Definition.
func NewDefinition(title string, fields []FieldSpec) (*Definition, error) {
	if len(fields) == 0 {
		return nil, errors.New("fields must contain at least one field")
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("field %d: name must be non-empty", i)
		}
		if strings.EqualFold(name, TimestampColumn) {
			return nil, fmt.Errorf("field %d: name %q is reserved", i, f.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("field %d: duplicate name %q", i, f.Name)
		}
		seen[name] = true
		if f.Rule == nil {
			return nil, fmt.Errorf("field %d (%s): rule must be set", i, f.Name)
		}
	}
	cp := make([]FieldSpec, len(fields))
	copy(cp, fields)
	return &Definition{Title: title, fields: cp}, nil
}

// Fields returns a copy of the field list in declared order.
func (d *Definition) Fields() []FieldSpec {
	cp := make([]FieldSpec, len(d.fields))
	copy(cp, d.fields)
	return cp
}

// Len returns the number of fields.
func (d *Definition) Len() int { return len(d.fields) }

// Field returns the field at index i.
func (d *Definition) Field(i int) FieldSpec { return d.fields[i] }

// Columns returns the CSV header: Timestamp followed by field names.
func (d *Definition) Columns() []string {
	cols := make([]string, 0, len(d.fields)+1)
	cols = append(cols, TimestampColumn)
	for _, f := range d.fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// Complete reports whether rec holds a valid value for every field.
func (d *Definition) Complete(rec *Record) error {
	for _, f := range d.fields {
		v, ok := rec.Values[f.Name]
		if !ok {
			return fmt.Errorf("field %q: missing value", f.Name)
		}
		if (f.Kind == KindInteger) != v.IsInt {
			return fmt.Errorf("field %q: expected %s value", f.Name, f.Kind)
		}
		if err := f.Validate(v.String()); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Row projects rec into CSV cells in column order. The timestamp cell is
// formatted with layout.
func (d *Definition) Row(rec *Record, layout string) []string {
	row := make([]string, 0, len(d.fields)+1)
	row = append(row, rec.Timestamp.Format(layout))
	for _, f := range d.fields {
		row = append(row, rec.Values[f.Name].String())
	}
	return row
}

package survey

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule kinds accepted in survey definition files.
const (
	RuleRange    = "range"
	RuleMemberOf = "member_of"
	RuleFreeText = "free_text"
)

// Config is the YAML form of a survey definition.
type Config struct {
	Title         string              `yaml:"title"`
	Review        *bool               `yaml:"review,omitempty"`
	CaseSensitive bool                `yaml:"case_sensitive,omitempty"`
	CodeLists     map[string]CodeList `yaml:"code_lists,omitempty"`
	Fields        []FieldConfig       `yaml:"fields"`
}

// CodeList is a named list of allowed codes. Values and Sequence may be
// combined; sequence codes are appended after Values.
type CodeList struct {
	Values   []string  `yaml:"values,omitempty"`
	Sequence *Sequence `yaml:"sequence,omitempty"`
}

// Sequence generates codes Prefix+N for N in [From, To], with N left-padded
// by Pad to Width characters.
type Sequence struct {
	Prefix string `yaml:"prefix,omitempty"`
	From   int    `yaml:"from"`
	To     int    `yaml:"to"`
	Width  int    `yaml:"width,omitempty"`
	Pad    string `yaml:"pad,omitempty"`
}

// FieldConfig is the YAML form of a FieldSpec.
type FieldConfig struct {
	Name    string     `yaml:"name"`
	Label   string     `yaml:"label,omitempty"`
	Section string     `yaml:"section,omitempty"`
	Type    string     `yaml:"type,omitempty"`
	Rule    RuleConfig `yaml:"rule"`
}

// RuleConfig is the YAML form of a Rule.
type RuleConfig struct {
	Kind          string   `yaml:"kind"`
	Min           *int     `yaml:"min,omitempty"`
	Max           *int     `yaml:"max,omitempty"`
	Values        []string `yaml:"values,omitempty"`
	CodeList      string   `yaml:"code_list,omitempty"`
	CaseSensitive *bool    `yaml:"case_sensitive,omitempty"`
}

// ReviewEnabled reports whether answers are shown for confirmation before
// saving. Defaults to true.
func (c *Config) ReviewEnabled() bool {
	return c.Review == nil || *c.Review
}

// Validate checks the config for structural errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title must be non-empty")
	}
	for name, cl := range c.CodeLists {
		if err := cl.Validate(); err != nil {
			return fmt.Errorf("code_lists.%s: %w", name, err)
		}
	}
	if len(c.Fields) == 0 {
		return errors.New("fields must contain at least one field")
	}
	for i, f := range c.Fields {
		if err := f.Validate(c); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that the code list yields at least one code.
func (cl CodeList) Validate() error {
	if cl.Sequence != nil {
		s := cl.Sequence
		if s.From > s.To {
			return fmt.Errorf("sequence: from (%d) must not exceed to (%d)", s.From, s.To)
		}
		if s.From < 0 {
			return errors.New("sequence: from must be non-negative")
		}
		if len([]rune(s.Pad)) > 1 {
			return errors.New("sequence: pad must be a single character")
		}
		return nil
	}
	if len(cl.Values) == 0 {
		return errors.New("values or sequence must be set")
	}
	return nil
}

// Codes expands the code list.
func (cl CodeList) Codes() []string {
	codes := append([]string(nil), cl.Values...)
	if s := cl.Sequence; s != nil {
		pad := s.Pad
		if pad == "" {
			pad = "0"
		}
		for n := s.From; n <= s.To; n++ {
			num := strconv.Itoa(n)
			if w := s.Width - len(num); w > 0 {
				num = strings.Repeat(pad, w) + num
			}
			codes = append(codes, s.Prefix+num)
		}
	}
	return codes
}

// Validate checks one field entry against the enclosing config.
func (f FieldConfig) Validate(c *Config) error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name must be non-empty")
	}
	switch f.Type {
	case "", "string", "integer":
	default:
		return fmt.Errorf("%s: type must be string or integer, got %q", f.Name, f.Type)
	}
	if err := f.Rule.Validate(c); err != nil {
		return fmt.Errorf("%s: rule: %w", f.Name, err)
	}
	if f.Type == "integer" && f.Rule.Kind != RuleRange {
		return fmt.Errorf("%s: type integer requires a %s rule", f.Name, RuleRange)
	}
	return nil
}

// Validate checks the rule entry.
func (r RuleConfig) Validate(c *Config) error {
	switch r.Kind {
	case RuleRange:
		if r.Min == nil || r.Max == nil {
			return errors.New("range requires min and max")
		}
		if *r.Min < 0 {
			return errors.New("min must be non-negative")
		}
		if *r.Min > *r.Max {
			return fmt.Errorf("min (%d) must not exceed max (%d)", *r.Min, *r.Max)
		}
	case RuleMemberOf:
		if len(r.Values) == 0 && r.CodeList == "" {
			return errors.New("member_of requires values or code_list")
		}
		if r.CodeList != "" {
			if _, ok := c.CodeLists[r.CodeList]; !ok {
				return fmt.Errorf("unknown code_list %q", r.CodeList)
			}
		}
	case RuleFreeText:
	default:
		return fmt.Errorf("unknown kind %q (valid: %s, %s, %s)", r.Kind, RuleRange, RuleMemberOf, RuleFreeText)
	}
	return nil
}

// Definition builds the immutable field list from the config.
func (c *Config) Definition() (*Definition, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	fields := make([]FieldSpec, 0, len(c.Fields))
	for _, fc := range c.Fields {
		spec := FieldSpec{
			Name:    strings.TrimSpace(fc.Name),
			Label:   fc.Label,
			Section: fc.Section,
		}
		switch fc.Rule.Kind {
		case RuleRange:
			spec.Rule = IntegerRange{Min: *fc.Rule.Min, Max: *fc.Rule.Max}
			spec.Kind = KindInteger
			if fc.Type == "string" {
				spec.Kind = KindString
			}
		case RuleMemberOf:
			codes := append([]string(nil), fc.Rule.Values...)
			if fc.Rule.CodeList != "" {
				codes = append(codes, c.CodeLists[fc.Rule.CodeList].Codes()...)
			}
			cs := c.CaseSensitive
			if fc.Rule.CaseSensitive != nil {
				cs = *fc.Rule.CaseSensitive
			}
			spec.Rule = NewMemberOf(codes, cs)
		default:
			spec.Rule = FreeText{}
		}
		fields = append(fields, spec)
	}
	return NewDefinition(c.Title, fields)
}

// Load parses a survey config from r with strict field validation.
// Unknown fields in the YAML cause an error.
func Load(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty survey file")
		}
		return nil, fmt.Errorf("failed to parse survey: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid survey: %w", err)
	}

	return &cfg, nil
}

// LoadFile loads a survey config from the given file path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // File path comes from user input, expected behavior
	if err != nil {
		return nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

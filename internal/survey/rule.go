package survey

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError describes why an answer was rejected. Caret is the rune
// offset in the submitted text where the input editor should place the
// cursor.
type ValidationError struct {
	Message string
	Caret   int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Rule checks raw answer text. Implementations are immutable and safe to
// reuse across sessions.
type Rule interface {
	// Validate returns nil when text is acceptable, otherwise a
	// *ValidationError.
	Validate(text string) error
	// Hint is the short annotation shown next to the question label,
	// e.g. "1-7". Empty when the rule has nothing to show.
	Hint() string
}

// IntegerRange accepts base-10 digit strings whose value lies in [Min, Max].
type IntegerRange struct {
	Min int
	Max int
}

// Validate implements Rule.
func (r IntegerRange) Validate(text string) error {
	if text == "" {
		return r.reject(0)
	}
	pos := 0
	for _, c := range text {
		if c < '0' || c > '9' {
			return r.reject(pos)
		}
		pos++
	}
	n, ok := parseDigits(text)
	if !ok || n < r.Min || n > r.Max {
		return r.reject(pos)
	}
	return nil
}

// Hint implements Rule.
func (r IntegerRange) Hint() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func (r IntegerRange) reject(caret int) error {
	return &ValidationError{
		Message: fmt.Sprintf("ange ett tal (%d-%d)", r.Min, r.Max),
		Caret:   caret,
	}
}

// parseDigits converts an all-digit string, reporting false on overflow.
func parseDigits(text string) (int, bool) {
	n := 0
	for i := 0; i < len(text); i++ {
		d := int(text[i] - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// MemberOf accepts answers found in a fixed code list. Unless CaseSensitive
// is set the answer is upper-cased before lookup.
type MemberOf struct {
	Allowed       map[string]struct{}
	CaseSensitive bool
}

// NewMemberOf builds a MemberOf rule from a list of codes. With
// caseSensitive false the codes themselves are stored upper-cased.
func NewMemberOf(codes []string, caseSensitive bool) MemberOf {
	allowed := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if !caseSensitive {
			c = strings.ToUpper(c)
		}
		allowed[c] = struct{}{}
	}
	return MemberOf{Allowed: allowed, CaseSensitive: caseSensitive}
}

// Normalize returns text the way it is compared and stored.
func (r MemberOf) Normalize(text string) string {
	if r.CaseSensitive {
		return text
	}
	return strings.ToUpper(text)
}

// Validate implements Rule.
func (r MemberOf) Validate(text string) error {
	if _, ok := r.Allowed[r.Normalize(text)]; ok {
		return nil
	}
	return &ValidationError{
		Message: fmt.Sprintf("%q är inte ett godkänt värde", text),
		Caret:   utf8.RuneCountInString(text),
	}
}

// maxHintCodes limits how many codes are listed in a label hint.
const maxHintCodes = 6

// Hint implements Rule. Long code lists are not spelled out.
func (r MemberOf) Hint() string {
	if len(r.Allowed) == 0 || len(r.Allowed) > maxHintCodes {
		return ""
	}
	return strings.Join(r.Codes(), "/")
}

// Codes returns the allowed codes in sorted order.
func (r MemberOf) Codes() []string {
	codes := make([]string, 0, len(r.Allowed))
	for c := range r.Allowed {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// FreeText accepts anything, including the empty string.
type FreeText struct{}

// Validate implements Rule.
func (FreeText) Validate(string) error { return nil }

// Hint implements Rule.
func (FreeText) Hint() string { return "" }

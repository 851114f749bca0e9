// Package codes generates blind tasting code tables: a random one-to-one
// mapping from two-digit numbers to letters, so tasters see a number while
// the organizer knows which peanut it is.
package codes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"unicode/utf8"
)

// DefaultLetters is the letter set used when none is given. W is left out.
const DefaultLetters = "ABCDEFGHIJKLMNOPQRSTUVXYZ"

// ErrAlreadyExists is returned when the output file exists.
var ErrAlreadyExists = errors.New("file already exists")

// Table maps a zero-padded two-digit code to a letter.
type Table map[string]string

// Generate assigns every letter a distinct random code in [0, len(letters)).
func Generate(letters string, rng *rand.Rand) (Table, error) {
	n := utf8.RuneCountInString(letters)
	if n == 0 {
		return nil, errors.New("letters must be non-empty")
	}
	if n > 100 {
		return nil, fmt.Errorf("at most 100 letters fit two-digit codes, got %d", n)
	}
	seen := make(map[rune]bool, n)
	for _, l := range letters {
		if seen[l] {
			return nil, fmt.Errorf("duplicate letter %q", l)
		}
		seen[l] = true
	}

	perm := rng.Perm(n)
	table := make(Table, n)
	i := 0
	for _, l := range letters {
		table[fmt.Sprintf("%02d", perm[i])] = string(l)
		i++
	}
	return table, nil
}

// Invert returns the letter -> code view of t.
func (t Table) Invert() map[string]string {
	inv := make(map[string]string, len(t))
	for code, letter := range t {
		inv[letter] = code
	}
	return inv
}

// WriteFile writes t as JSON to path. It fails with ErrAlreadyExists if the
// file exists, so an earlier table is never replaced.
func WriteFile(path string, t Table) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal code table: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // path comes from the command line
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create code table: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write code table: %w", err)
	}
	return f.Close()
}

// ReadFile loads a code table written by WriteFile.
func ReadFile(path string) (Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse code table: %w", err)
	}
	return t, nil
}

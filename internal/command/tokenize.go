// Package command turns console input into ledger operations.
//
// A line is a command word followed by prefixed fields, for example
//
//	add d/team lunch p/John n/Jane a/30 n/Jake a/20
//
// A word starting with a known prefix opens a field. Bare words that follow
// extend the open field, joined by single spaces.
package command

import (
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

// Field prefixes.
const (
	PrefixDescription = "d/"
	PrefixPayer       = "p/"
	PrefixName        = "n/"
	PrefixAmount      = "a/"
	PrefixTotal       = "t/"
	PrefixIndex       = "i/"
	PrefixRename      = "r/"
	PrefixAdjustment  = "s/"
)

var prefixes = []string{
	PrefixDescription, PrefixPayer, PrefixName, PrefixAmount,
	PrefixTotal, PrefixIndex, PrefixRename, PrefixAdjustment,
}

// Field is one prefixed value from an input line.
type Field struct {
	Prefix string
	Value  string
}

// Input is a tokenized line.
type Input struct {
	// Command is the first word, lower-cased. Empty for a blank line.
	Command string

	// Fields holds every field in input order.
	Fields []Field
}

// Tokenize splits line into a command word and its fields.
func Tokenize(line string) (Input, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Input{}, nil
	}

	in := Input{Command: strings.ToLower(words[0])}
	for _, w := range words[1:] {
		if prefix, ok := prefixOf(w); ok {
			in.Fields = append(in.Fields, Field{Prefix: prefix, Value: w[len(prefix):]})
			continue
		}
		if len(in.Fields) == 0 {
			return Input{}, fmt.Errorf("%w: unexpected %q before any field", models.ErrFormat, w)
		}
		last := &in.Fields[len(in.Fields)-1]
		if last.Value == "" {
			last.Value = w
		} else {
			last.Value += " " + w
		}
	}
	return in, nil
}

func prefixOf(word string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(word, p) {
			return p, true
		}
	}
	return "", false
}

// all returns the values of every field with prefix, in order.
func (in Input) all(prefix string) []string {
	var out []string
	for _, f := range in.Fields {
		if f.Prefix == prefix {
			out = append(out, f.Value)
		}
	}
	return out
}

func (in Input) has(prefix string) bool {
	return len(in.all(prefix)) > 0
}

// optional returns the value of a field that may appear at most once.
func (in Input) optional(prefix string) (string, bool, error) {
	values := in.all(prefix)
	switch len(values) {
	case 0:
		return "", false, nil
	case 1:
		return values[0], true, nil
	default:
		return "", false, fmt.Errorf("%w: %s given %d times", models.ErrFormat, prefix, len(values))
	}
}

// required returns the value of a field that must appear exactly once with a
// non-empty value.
func (in Input) required(prefix, what string) (string, error) {
	v, ok, err := in.optional(prefix)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s (%s) is required", models.ErrFormat, what, prefix)
	}
	return v, nil
}

// only rejects fields whose prefix is not in allowed.
func (in Input) only(allowed ...string) error {
	for _, f := range in.Fields {
		ok := false
		for _, a := range allowed {
			if f.Prefix == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s does not take %s", models.ErrFormat, in.Command, f.Prefix)
		}
	}
	return nil
}

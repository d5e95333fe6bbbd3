// Package fields extracts structured metadata from normalized filing text.
//
// Every extractor is total: absence is reported with ok == false, never with
// an error. Pattern precedence is expressed as ordered tier lists evaluated
// first-success-wins.
package fields

import (
	"regexp"

	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
)

// tier is one step of a precedence chain. Only the first match of pattern is
// considered; if transform or validate rejects it the next tier is tried,
// unless the tier is final.
type tier[T any] struct {
	name      string
	pattern   *regexp.Regexp
	window    int  // runes of text searched; 0 means all of it
	final     bool // a rejected match ends the chain
	transform func(groups []string) T
	validate  func(T) bool
}

func (t tier[T]) apply(text string) (v T, matched, ok bool) {
	if t.window > 0 {
		text = textnorm.Head(text, t.window)
	}
	groups := t.pattern.FindStringSubmatch(text)
	if groups == nil {
		return v, false, false
	}
	v = t.transform(groups)
	if t.validate != nil && !t.validate(v) {
		var zero T
		return zero, true, false
	}
	return v, true, true
}

// firstMatch runs tiers in order and reports which one produced the value.
func firstMatch[T any](text string, tiers []tier[T]) (T, string, bool) {
	var zero T
	if text == "" {
		return zero, "", false
	}
	for _, t := range tiers {
		v, matched, ok := t.apply(text)
		if ok {
			return v, t.name, true
		}
		if matched && t.final {
			break
		}
	}
	return zero, "", false
}

func nonEmpty(s string) bool { return s != "" }

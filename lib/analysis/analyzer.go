package analysis

import (
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type Type string

const (
	Kagome  Type = "kagome"
	Segment Type = "segment"
)

// Analyzer splits a sentence into tokens carrying their dictionary form. Token
// offsets are rune offsets into the sentence, in sentence order.
type Analyzer interface {
	Analyze(sentence string) ([]lib.Token, error)
}

func New(t Type) (Analyzer, error) {
	switch t {
	case Kagome:
		return NewKagomeAnalyzer()
	case Segment:
		return NewSegmentAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer %q", t)
	}
}

// Current returns the first token covering cursor, or nil.
func Current(tokens []lib.Token, cursor int) *lib.Token {
	for i := range tokens {
		if tokens[i].Covers(cursor) {
			current := tokens[i]
			return &current
		}
	}
	return nil
}

package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"golang.org/x/text/unicode/norm"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type segmentAnalyzer struct{}

// NewSegmentAnalyzer returns an analyzer which splits on Unicode word boundaries and
// uses the NFKC normalised, lower-cased word as its dictionary form. It knows nothing about inflection;
// it exists for languages kagome cannot handle.
func NewSegmentAnalyzer() Analyzer {
	return segmentAnalyzer{}
}

func (segmentAnalyzer) Analyze(sentence string) ([]lib.Token, error) {
	segmenter := segment.NewWordSegmenterDirect([]byte(sentence))
	tokens := []lib.Token{}

	position := 0
	for segmenter.Segment() {
		segmentBytes := segmenter.Bytes()
		length := utf8.RuneCount(segmentBytes)

		if segmenter.Type() != segment.None || !isWhitespace(segmentBytes) {
			surface := string(segmentBytes)
			tokens = append(tokens, lib.Token{
				Surface:        surface,
				DictionaryForm: strings.ToLower(norm.NFKC.String(surface)),
				Start:          position,
				End:            position + length,
			})
		}
		position += length
	}
	if err := segmenter.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func isWhitespace(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

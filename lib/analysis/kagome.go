package analysis

import (
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

// unknownFeature is what the IPA dictionary stores for features it does not know.
const unknownFeature = "*"

type kagomeAnalyzer struct {
	tokenizer *tokenizer.Tokenizer
}

// NewKagomeAnalyzer returns a Japanese morphological analyzer backed by kagome and
// the IPA dictionary. Loading the dictionary takes a moment, so build one and share it.
func NewKagomeAnalyzer() (Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &kagomeAnalyzer{tokenizer: t}, nil
}

func (k *kagomeAnalyzer) Analyze(sentence string) ([]lib.Token, error) {
	if sentence == "" {
		return []lib.Token{}, nil
	}

	kagomeTokens := k.tokenizer.Analyze(sentence, tokenizer.Normal)
	tokens := make([]lib.Token, 0, len(kagomeTokens))
	for _, kt := range kagomeTokens {
		if kt.Class == tokenizer.DUMMY {
			continue
		}
		base, ok := kt.BaseForm()
		if !ok || base == "" || base == unknownFeature {
			base = surfaceForm(kt.Surface)
		}
		// kagome's Start and End are rune offsets; Position is the byte offset.
		tokens = append(tokens, lib.Token{
			Surface:        kt.Surface,
			DictionaryForm: base,
			Start:          kt.Start,
			End:            kt.End,
		})
	}
	return tokens, nil
}

// surfaceForm stands in for the base form of words the dictionary does not know.
// Width variants such as ＡＢＣ fold to ABC.
func surfaceForm(surface string) string {
	return norm.NFKC.String(surface)
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

func TestCurrent(t *testing.T) {
	tokens := []lib.Token{
		{Surface: "本", DictionaryForm: "本", Start: 0, End: 1},
		{Surface: "を", DictionaryForm: "を", Start: 1, End: 2},
		{Surface: "読ん", DictionaryForm: "読む", Start: 2, End: 4},
	}

	tests := []struct {
		name   string
		cursor int
		want   *lib.Token
	}{
		{name: "start of token", cursor: 2, want: &tokens[2]},
		{name: "inside token", cursor: 3, want: &tokens[2]},
		{name: "first token", cursor: 0, want: &tokens[0]},
		{name: "end is exclusive", cursor: 4, want: nil},
		{name: "negative", cursor: -1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Current(tokens, tt.cursor))
		})
	}
}

func TestNewUnknownAnalyzer(t *testing.T) {
	_, err := New("mecab")
	assert.Error(t, err)
}

func TestSegmentAnalyzer(t *testing.T) {
	tokens, err := NewSegmentAnalyzer().Analyze("The Cats  ran, café!")
	require.NoError(t, err)

	assert.Equal(t, []lib.Token{
		{Surface: "The", DictionaryForm: "the", Start: 0, End: 3},
		{Surface: "Cats", DictionaryForm: "cats", Start: 4, End: 8},
		{Surface: "ran", DictionaryForm: "ran", Start: 10, End: 13},
		{Surface: ",", DictionaryForm: ",", Start: 13, End: 14},
		{Surface: "café", DictionaryForm: "café", Start: 15, End: 19},
		{Surface: "!", DictionaryForm: "!", Start: 19, End: 20},
	}, tokens)
}

func TestSegmentAnalyzerFoldsWidth(t *testing.T) {
	tokens, err := NewSegmentAnalyzer().Analyze("ＡＢＣ ran")
	require.NoError(t, err)

	assert.Equal(t, []lib.Token{
		{Surface: "ＡＢＣ", DictionaryForm: "abc", Start: 0, End: 3},
		{Surface: "ran", DictionaryForm: "ran", Start: 4, End: 7},
	}, tokens)
}

func TestSurfaceForm(t *testing.T) {
	assert.Equal(t, "ABC", surfaceForm("ＡＢＣ"))
	assert.Equal(t, "カタカナ", surfaceForm("ｶﾀｶﾅ"))
	assert.Equal(t, "食べた", surfaceForm("食べた"))
}

func TestSegmentAnalyzerEmpty(t *testing.T) {
	tokens, err := NewSegmentAnalyzer().Analyze("")
	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)
}

type kagomeSuite struct {
	suite.Suite
	analyzer Analyzer
}

func TestKagomeSuite(t *testing.T) {
	suite.Run(t, new(kagomeSuite))
}

func (s *kagomeSuite) SetupSuite() {
	analyzer, err := New(Kagome)
	s.Require().NoError(err)
	s.analyzer = analyzer
}

func (s *kagomeSuite) TestDictionaryForms() {
	tokens, err := s.analyzer.Analyze("食べた")
	s.Require().NoError(err)

	s.Equal([]lib.Token{
		{Surface: "食べ", DictionaryForm: "食べる", Start: 0, End: 2},
		{Surface: "た", DictionaryForm: "た", Start: 2, End: 3},
	}, tokens)
}

func (s *kagomeSuite) TestOffsetsAreRunes() {
	sentence := "猫が走った"
	tokens, err := s.analyzer.Analyze(sentence)
	s.Require().NoError(err)
	s.Require().NotEmpty(tokens)

	runes := []rune(sentence)
	end := 0
	for _, token := range tokens {
		s.Equal(end, token.Start, "tokens should be contiguous")
		s.Equal(token.Surface, string(runes[token.Start:token.End]))
		end = token.End
	}
	s.Equal(len(runes), end)

	current := Current(tokens, 2)
	s.Require().NotNil(current)
	s.Equal("走る", current.DictionaryForm)
}

func (s *kagomeSuite) TestEmptySentence() {
	tokens, err := s.analyzer.Analyze("")
	s.NoError(err)
	s.Empty(tokens)
}

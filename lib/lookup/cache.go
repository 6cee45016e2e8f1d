package lookup

import (
	"sync/atomic"

	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type cacheEntry struct {
	sentence string
	tokens   []lib.Token
}

// sentenceCache holds the tokens of the most recently analysed sentence. Entries are
// immutable and swapped whole, so a reader sees either the old sentence with its
// tokens or the new sentence with its tokens.
type sentenceCache struct {
	entry atomic.Pointer[cacheEntry]
}

func (s *sentenceCache) tokensFor(sentence string) ([]lib.Token, bool) {
	e := s.entry.Load()
	if e == nil || e.sentence != sentence {
		return nil, false
	}
	return e.tokens, true
}

func (s *sentenceCache) replace(sentence string, tokens []lib.Token) {
	copied := make([]lib.Token, len(tokens))
	copy(copied, tokens)
	s.entry.Store(&cacheEntry{sentence: sentence, tokens: copied})
}

func (s *sentenceCache) load() *cacheEntry {
	return s.entry.Load()
}

func (s *sentenceCache) clear() {
	s.entry.Store(nil)
}

// scan returns the first token covering cursor, in sentence order.
func scan(tokens []lib.Token, cursor int) *Result {
	for _, token := range tokens {
		if token.Covers(cursor) {
			return resultFrom(token)
		}
	}
	return nil
}

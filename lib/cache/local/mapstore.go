package local

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache"
)

const DefaultCleanupInterval = 10 * time.Minute

type Config struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// New returns an in-process cache. Entries expire after conf.TTL, or never if it is zero.
func New(conf Config) cache.Client {
	ttl := conf.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &local{
		store: gocache.New(ttl, DefaultCleanupInterval),
	}
}

type local struct {
	store *gocache.Cache
}

func (l *local) Get(sentence string) ([]lib.Token, bool, error) {
	value, found := l.store.Get(sentence)
	if !found {
		return nil, false, nil
	}
	tokens, ok := value.([]lib.Token)
	if !ok {
		return nil, false, nil
	}
	return copyTokens(tokens), true, nil
}

func (l *local) Set(sentence string, tokens []lib.Token) error {
	l.store.SetDefault(sentence, copyTokens(tokens))
	return nil
}

func (l *local) Ready() bool {
	return true
}

func copyTokens(tokens []lib.Token) []lib.Token {
	copied := make([]lib.Token, len(tokens))
	copy(copied, tokens)
	return copied
}

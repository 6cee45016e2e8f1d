package main

import (
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/analysis"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache"
)

type controller struct {
	analyzer      analysis.Analyzer
	analysisCache cache.Client
}

// Analyse tokenizes the sentence (or fetches its tokens from the cache) and picks the
// token under the cursor. The cache only ever degrades a request to a fresh analysis.
func (c controller) Analyse(req lib.AnalysisRequest) (lib.AnalysisResponse, error) {
	tokens, err := c.tokens(req.Sentence)
	if err != nil {
		return lib.AnalysisResponse{}, err
	}
	return lib.AnalysisResponse{
		Tokens:  tokens,
		Current: analysis.Current(tokens, req.CursorIndex),
	}, nil
}

func (c controller) tokens(sentence string) ([]lib.Token, error) {
	tokens, found, err := c.analysisCache.Get(sentence)
	if err != nil {
		log.Warn().Err(err).Msg("analysis cache read failed")
	} else if found {
		return tokens, nil
	}

	tokens, err = c.analyzer.Analyze(sentence)
	if err != nil {
		return nil, err
	}

	if err := c.analysisCache.Set(sentence, tokens); err != nil {
		log.Warn().Err(err).Msg("analysis cache write failed")
	}
	return tokens, nil
}

func (c controller) Ready() bool {
	return c.analysisCache.Ready()
}

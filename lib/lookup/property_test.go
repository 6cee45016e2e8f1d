package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"pgregory.net/rapid"
)

var discard = zerolog.Nop()

// fakeService answers with a canned analysis and counts calls.
type fakeService struct {
	calls    int
	response lib.AnalysisResponse
	fail     bool
}

func (f *fakeService) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("unreachable")
	}
	b, err := json.Marshal(f.response)
	if err != nil {
		return nil, err
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(string(b)))}, nil
}

func tokensGenerator() *rapid.Generator[[]lib.Token] {
	return rapid.Custom(func(t *rapid.T) []lib.Token {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		tokens := make([]lib.Token, 0, n)
		offset := rapid.IntRange(0, 3).Draw(t, "leading")
		for i := 0; i < n; i++ {
			length := rapid.IntRange(1, 4).Draw(t, "length")
			form := rapid.StringMatching(`[a-zぁ-ん]{1,4}`).Draw(t, "form")
			tokens = append(tokens, lib.Token{Surface: form, DictionaryForm: form, Start: offset, End: offset + length})
			offset += length + rapid.IntRange(0, 2).Draw(t, "gap")
		}
		return tokens
	})
}

func TestCacheHitAnswersFromCachedTokens(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sentence := rapid.String().Draw(t, "sentence")
		tokens := tokensGenerator().Draw(t, "tokens")
		cursor := rapid.IntRange(-2, 40).Draw(t, "cursor")

		service := &fakeService{response: lib.AnalysisResponse{Tokens: tokens}}
		client := NewClient(Config{}, WithHttpClient(service))
		client.GetDictionaryForm(context.Background(), sentence, 0)

		got := client.GetDictionaryForm(context.Background(), sentence, cursor)

		if service.calls != 1 {
			t.Fatalf("expected a single request, got %d", service.calls)
		}
		var want *Result
		for _, token := range tokens {
			if token.Start <= cursor && cursor < token.End {
				want = &Result{DictionaryForm: token.DictionaryForm, Length: token.End - token.Start, Offset: token.Start}
				break
			}
		}
		if (want == nil) != (got == nil) || (want != nil && *want != *got) {
			t.Fatalf("cursor %d: want %+v, got %+v", cursor, want, got)
		}
	})
}

func TestDifferentSentenceAlwaysRequests(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		first := rapid.String().Draw(t, "first")
		second := rapid.String().Filter(func(s string) bool { return s != first }).Draw(t, "second")
		cursor := rapid.IntRange(0, 20).Draw(t, "cursor")

		service := &fakeService{response: lib.AnalysisResponse{Tokens: []lib.Token{}}}
		client := NewClient(Config{}, WithHttpClient(service))
		client.GetDictionaryForm(context.Background(), first, cursor)
		client.GetDictionaryForm(context.Background(), second, cursor)

		if service.calls != 2 {
			t.Fatalf("expected two requests, got %d", service.calls)
		}
	})
}

func TestFailedRequestLeavesCacheUntouched(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sentence := rapid.String().Draw(t, "sentence")
		other := rapid.String().Filter(func(s string) bool { return s != sentence }).Draw(t, "other")
		tokens := tokensGenerator().Draw(t, "tokens")

		service := &fakeService{response: lib.AnalysisResponse{Tokens: tokens}}
		client := NewClient(Config{}, WithHttpClient(service), WithLogger(discard))
		client.GetDictionaryForm(context.Background(), sentence, 0)

		service.fail = true
		if got := client.GetDictionaryForm(context.Background(), other, 0); got != nil {
			t.Fatalf("expected absent result on failure, got %+v", got)
		}

		cachedSentence, cachedTokens, ok := client.Cached()
		if !ok || cachedSentence != sentence || len(cachedTokens) != len(tokens) {
			t.Fatalf("cache changed by failed request: %q %v", cachedSentence, cachedTokens)
		}
		for i := range tokens {
			if cachedTokens[i] != tokens[i] {
				t.Fatalf("token %d changed: %+v != %+v", i, cachedTokens[i], tokens[i])
			}
		}
	})
}

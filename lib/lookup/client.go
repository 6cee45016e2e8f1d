// Package lookup resolves the dictionary form of the word under a cursor by asking a
// morphological analysis service, remembering the analysis of the last sentence it saw.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

// Defaults used when Config leaves a field at its zero value.
const (
	DefaultEndpoint = "http://127.0.0.1:8000"
	DefaultTimeout  = 5000 * time.Millisecond
)

// Config is read from the "lookup" block of the config file. A zero Endpoint means
// DefaultEndpoint and a zero or negative Timeout means DefaultTimeout.
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Result describes the token under the cursor. Offset and Length are in runes.
type Result struct {
	DictionaryForm string `json:"dictionaryForm"`
	Length         int    `json:"length"`
	Offset         int    `json:"offset"`
}

func resultFrom(token lib.Token) *Result {
	return &Result{
		DictionaryForm: token.DictionaryForm,
		Length:         token.End - token.Start,
		Offset:         token.Start,
	}
}

type Option func(*Client)

// WithHttpClient replaces http.DefaultClient.
func WithHttpClient(httpClient lib.HttpClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger replaces the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is safe for concurrent use. Concurrent lookups of different sentences race
// for the single cache slot; whichever response lands last wins it.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient lib.HttpClient
	logger     zerolog.Logger
	cache      sentenceCache
}

// NewClient returns a Client with an empty sentence cache, talking to conf.Endpoint
// through http.DefaultClient unless an option says otherwise.
func NewClient(conf Config, opts ...Option) *Client {
	c := &Client{
		endpoint:   conf.Endpoint,
		timeout:    conf.Timeout,
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// GetDictionaryForm returns the dictionary form of the token covering cursorIndex in
// sentence, or nil if there is none or the service could not be reached. Failures are
// logged, never returned.
func (c *Client) GetDictionaryForm(ctx context.Context, sentence string, cursorIndex int) *Result {
	result, err := c.Lookup(ctx, sentence, cursorIndex)
	if err == nil {
		return result
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		c.logger.Warn().Int("status", statusErr.Code).Str("endpoint", c.endpoint).Msg("analysis service rejected dictionary form lookup")
	case errors.Is(err, ErrTimeout):
		c.logger.Error().Err(err).Dur("timeout", c.timeout).Str("endpoint", c.endpoint).Msg("dictionary form lookup timed out")
	default:
		c.logger.Error().Err(err).Str("endpoint", c.endpoint).Msg("dictionary form lookup failed")
	}
	return nil
}

// Lookup is GetDictionaryForm without the logging: failures come back as errors
// matching ErrTimeout, ErrStatus, ErrTransport or ErrMalformedResponse. A nil result
// with a nil error means no token covers the cursor.
//
// If sentence is the cached one the answer comes from the cache, even when no cached
// token covers the cursor. Otherwise the service is asked and, on success, its tokens
// replace the cache.
func (c *Client) Lookup(ctx context.Context, sentence string, cursorIndex int) (*Result, error) {
	if tokens, ok := c.cache.tokensFor(sentence); ok {
		c.logger.Debug().Int("cursor", cursorIndex).Msg("sentence cache hit")
		return scan(tokens, cursorIndex), nil
	}

	response, err := c.analyse(ctx, lib.AnalysisRequest{Sentence: sentence, CursorIndex: cursorIndex})
	if err != nil {
		return nil, err
	}

	c.cache.replace(sentence, response.Tokens)
	if response.Current == nil {
		return nil, nil
	}
	return resultFrom(*response.Current), nil
}

// Cached returns a copy of the cached sentence and its tokens. ok is false when nothing
// has been cached yet.
func (c *Client) Cached() (sentence string, tokens []lib.Token, ok bool) {
	e := c.cache.load()
	if e == nil {
		return "", nil, false
	}
	tokens = make([]lib.Token, len(e.tokens))
	copy(tokens, e.tokens)
	return e.sentence, tokens, true
}

// Reset forgets the cached sentence so the next lookup asks the service.
func (c *Client) Reset() {
	c.cache.clear()
}

func (c *Client) analyse(ctx context.Context, request lib.AnalysisRequest) (*lib.AnalysisResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.requestError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.requestError(ctx, reqCtx, err)
	}

	var response lib.AnalysisResponse
	if err := json.Unmarshal(b, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate(response); err != nil {
		return nil, err
	}
	return &response, nil
}

// requestError tells our own deadline firing apart from everything else, including
// the caller cancelling ctx.
func (c *Client) requestError(ctx, reqCtx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, c.timeout, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func validate(response lib.AnalysisResponse) error {
	if response.Tokens == nil {
		return fmt.Errorf("%w: missing tokens", ErrMalformedResponse)
	}
	for _, token := range response.Tokens {
		if token.Start < 0 || token.End < token.Start {
			return fmt.Errorf("%w: invalid token span [%d, %d)", ErrMalformedResponse, token.Start, token.End)
		}
	}
	if current := response.Current; current != nil && (current.Start < 0 || current.End < current.Start) {
		return fmt.Errorf("%w: invalid current span [%d, %d)", ErrMalformedResponse, current.Start, current.End)
	}
	return nil
}

package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/mock"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type MockHttpClient struct {
	mock.Mock
}

func (m *MockHttpClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func JsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// Tokens builds back to back tokens from surface/dictionary form pairs.
func Tokens(pairs ...string) []lib.Token {
	tokens := make([]lib.Token, 0, len(pairs)/2)
	offset := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		length := utf8.RuneCountInString(pairs[i])
		tokens = append(tokens, lib.Token{
			Surface:        pairs[i],
			DictionaryForm: pairs[i+1],
			Start:          offset,
			End:            offset + length,
		})
		offset += length
	}
	return tokens
}

// AnalysisService is an httptest server speaking the analysis wire protocol. It answers
// every request with analyse, after delay.
type AnalysisService struct {
	*httptest.Server

	analyse func(lib.AnalysisRequest) (status int, response interface{})
	delay   time.Duration

	requests int32
	mu       sync.Mutex
	received []lib.AnalysisRequest
	aborted  chan struct{}
}

func NewAnalysisService(delay time.Duration, analyse func(lib.AnalysisRequest) (int, interface{})) *AnalysisService {
	s := &AnalysisService{
		analyse: analyse,
		delay:   delay,
		aborted: make(chan struct{}, 16),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// StaticAnalysis answers every request with the given tokens, choosing current by cursor.
func StaticAnalysis(tokens []lib.Token) func(lib.AnalysisRequest) (int, interface{}) {
	return func(req lib.AnalysisRequest) (int, interface{}) {
		response := lib.AnalysisResponse{Tokens: tokens}
		for i := range tokens {
			if tokens[i].Covers(req.CursorIndex) {
				current := tokens[i]
				response.Current = &current
				break
			}
		}
		return http.StatusOK, response
	}
}

func (s *AnalysisService) serve(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.requests, 1)

	var req lib.AnalysisRequest
	if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.received = append(s.received, req)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			s.aborted <- struct{}{}
			return
		}
	}

	status, response := s.analyse(req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch body := response.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(body))
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (s *AnalysisService) Requests() int {
	return int(atomic.LoadInt32(&s.requests))
}

func (s *AnalysisService) Received() []lib.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]lib.AnalysisRequest(nil), s.received...)
}

// Aborted is signalled each time a delayed request is cancelled by the client.
func (s *AnalysisService) Aborted() <-chan struct{} {
	return s.aborted
}

package lib

import "net/http"

// Token is one morphological unit of an analysed sentence. Start is inclusive, End is
// exclusive, and both count runes from the beginning of the sentence.
type Token struct {
	Surface        string `json:"surface"`
	DictionaryForm string `json:"jishokei"`
	Start          int    `json:"start"`
	End            int    `json:"end"`
}

// Covers reports whether cursor falls inside the token's span.
func (t Token) Covers(cursor int) bool {
	return t.Start <= cursor && cursor < t.End
}

// AnalysisRequest is the body POSTed to the analysis service.
type AnalysisRequest struct {
	Sentence    string `json:"sentence"`
	CursorIndex int    `json:"cursor_index"`
}

// AnalysisResponse is the analysis service's reply. Current is nil when no token
// covers the requested cursor.
type AnalysisResponse struct {
	Tokens  []Token `json:"tokens"`
	Current *Token  `json:"current"`
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

package remote

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache"
)

type ElasticsearchConfig struct {
	Host  string
	Port  int
	Index string
}

// esDocument is one analysed sentence. The sentence is kept next to its tokens so a
// hit can be checked against the sentence that was asked for.
type esDocument struct {
	Sentence string      `json:"sentence"`
	Tokens   []lib.Token `json:"tokens"`
}

type esGetResponse struct {
	Found  bool       `json:"found"`
	Source esDocument `json:"_source"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (cache.Client, error) {
	return newElasticsearchClient(conf, nil)
}

func newElasticsearchClient(conf ElasticsearchConfig, transport http.RoundTripper) (*esClient, error) {
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)},
		Transport: transport,
	})
	if err != nil {
		return nil, err
	}
	return &esClient{
		Client: c,
		index:  conf.Index,
	}, nil
}

type esClient struct {
	*elasticsearch.Client
	index string
}

// documentID hashes the sentence, document ids are limited to 512 bytes.
func documentID(sentence string) string {
	sum := sha256.Sum256([]byte(sentence))
	return hex.EncodeToString(sum[:])
}

func (e *esClient) Get(sentence string) ([]lib.Token, bool, error) {
	res, err := e.Client.Get(e.index, documentID(sentence))
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, false, nil
	} else if res.IsError() {
		return nil, false, errors.New(res.String())
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, err
	}
	var response esGetResponse
	if err := json.Unmarshal(b, &response); err != nil {
		return nil, false, err
	}
	if !response.Found || response.Source.Sentence != sentence {
		return nil, false, nil
	}
	if response.Source.Tokens == nil {
		response.Source.Tokens = []lib.Token{}
	}
	return response.Source.Tokens, true, nil
}

func (e *esClient) Set(sentence string, tokens []lib.Token) error {
	if tokens == nil {
		tokens = []lib.Token{}
	}
	b, err := json.Marshal(esDocument{Sentence: sentence, Tokens: tokens})
	if err != nil {
		return err
	}

	res, err := e.Index(e.index, bytes.NewReader(b), e.Index.WithDocumentID(documentID(sentence)))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

package cumulo

import (
	"context"
	"net/http"

	"github.com/cumulo-ai/cumulo-go/core"
)

// EmbeddingsService turns text into vectors.
type EmbeddingsService struct {
	dispatcher *core.Dispatcher
}

// EmbeddingRequest is the request body for embeddings.
type EmbeddingRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
	Dimensions     *int     `json:"dimensions,omitempty"`
	User           string   `json:"user,omitempty"`
}

// Embedding is one vector of an embeddings response, in input order.
type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingResponse carries the vectors for one request.
type EmbeddingResponse struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *core.Usage `json:"usage,omitempty"`
}

// Create embeds each input string and returns the vectors in input order.
func (s *EmbeddingsService) Create(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/embeddings",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var out EmbeddingResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Package cumulo is the official Go SDK for the Cumulo inference and compute
// platform.
//
// A Client bundles one resource service per API surface (chat completions,
// embeddings, files, vector stores, sandboxes, deployments, and the
// accelerator catalog) behind a shared transport that handles
// authentication, retries, and response normalization (see the core
// package).
//
// Construction:
//
//	client, err := cumulo.NewClient("cmk_live_...",
//		cumulo.WithTimeout(30*time.Second),
//	)
//
// or from the environment:
//
//	client, err := cumulo.NewFromEnv()
//
// which reads CUMULO_API_KEY. A Client is safe for concurrent use; all
// methods accept a context.Context governing cancellation.
package cumulo

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/cumulo-ai/cumulo-go/core"
)

// Client is the entry point to the Cumulo API. Zero value is not usable;
// construct with NewClient or NewFromEnv.
type Client struct {
	dispatcher *core.Dispatcher
	logger     *slog.Logger

	// Chat creates chat completions, streamed or not.
	Chat *ChatService

	// Embeddings turns text into vectors.
	Embeddings *EmbeddingsService

	// Files uploads and manages stored files.
	Files *FilesService

	// VectorStores manages vector stores and their file attachments.
	VectorStores *VectorStoresService

	// Sandboxes runs ephemeral compute sandboxes.
	Sandboxes *SandboxesService

	// Deployments manages dedicated model deployments.
	Deployments *DeploymentsService

	// Accelerators reads the accelerator catalog.
	Accelerators *AcceleratorsService
}

// NewClient returns a Client authenticated with apiKey. Options override the
// defaults documented on core.ClientConfig.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	cfg := core.ClientConfig{APIKey: core.NewSecret(apiKey)}
	for _, opt := range opts {
		opt(&cfg)
	}

	dispatcher, err := core.NewDispatcher(cfg)
	if err != nil {
		return nil, err
	}
	logger := dispatcher.Config().Logger

	c := &Client{dispatcher: dispatcher, logger: logger}
	c.Chat = &ChatService{dispatcher: dispatcher, logger: logger}
	c.Embeddings = &EmbeddingsService{dispatcher: dispatcher}
	c.Files = &FilesService{dispatcher: dispatcher}
	c.VectorStores = &VectorStoresService{dispatcher: dispatcher}
	c.Sandboxes = &SandboxesService{dispatcher: dispatcher, logger: logger}
	c.Deployments = &DeploymentsService{dispatcher: dispatcher}
	c.Accelerators = &AcceleratorsService{dispatcher: dispatcher}
	return c, nil
}

// NewFromEnv builds a Client from the CUMULO_API_KEY environment variable.
func NewFromEnv(opts ...Option) (*Client, error) {
	return NewClient(os.Getenv("CUMULO_API_KEY"), opts...)
}

// decodeJSON drains resp and unmarshals it into v.
func decodeJSON(resp *core.RawResponse, v any) error {
	data, err := resp.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &core.APIError{
			Status:  resp.StatusCode,
			Message: "decode response: " + err.Error(),
			Err:     core.ErrInvalidResponse,
		}
	}
	return nil
}

// deletionConfirmation is the envelope returned by DELETE endpoints.
type deletionConfirmation struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

package cumulo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cumulo-ai/cumulo-go/core"
)

// VectorStoresService manages vector stores and their file attachments.
type VectorStoresService struct {
	dispatcher *core.Dispatcher
}

// VectorStoreStatus is the processing state of a vector store.
type VectorStoreStatus string

const (
	VectorStoreStatusInProgress VectorStoreStatus = "in_progress"
	VectorStoreStatusCompleted  VectorStoreStatus = "completed"
	VectorStoreStatusFailed     VectorStoreStatus = "failed"
)

// VectorStore is a searchable collection of file chunks.
type VectorStore struct {
	ID         string                `json:"id"`
	Object     string                `json:"object"`
	Name       string                `json:"name"`
	Status     VectorStoreStatus     `json:"status"`
	CreatedAt  int64                 `json:"created_at"`
	FileCounts VectorStoreFileCounts `json:"file_counts"`
	Metadata   map[string]string     `json:"metadata,omitempty"`
}

// VectorStoreFileCounts summarizes the processing state of attached files.
type VectorStoreFileCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// VectorStoreFile is a file attached to a vector store.
type VectorStoreFile struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	VectorStoreID string            `json:"vector_store_id"`
	Status        VectorStoreStatus `json:"status"`
	CreatedAt     int64             `json:"created_at"`
	LastError     string            `json:"last_error,omitempty"`
}

// VectorStoreCreateRequest creates a vector store, optionally seeding it
// with already-uploaded files.
type VectorStoreCreateRequest struct {
	Name     string            `json:"name"`
	FileIDs  []string          `json:"file_ids,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// VectorStoreList is a page of vector stores.
type VectorStoreList struct {
	Object  string        `json:"object"`
	Data    []VectorStore `json:"data"`
	HasMore bool          `json:"has_more"`
}

// VectorStoreFileList is a page of vector store file attachments.
type VectorStoreFileList struct {
	Object  string            `json:"object"`
	Data    []VectorStoreFile `json:"data"`
	HasMore bool              `json:"has_more"`
}

// ListParams pages through list endpoints. Zero values mean unset.
type ListParams struct {
	Limit int
	After string
}

func (p *ListParams) encode() string {
	if p == nil {
		return ""
	}
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Create makes a new vector store. Processing of any seeded files happens
// asynchronously; use WaitUntilReady to block until it finishes.
func (s *VectorStoresService) Create(ctx context.Context, req *VectorStoreCreateRequest) (*VectorStore, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/vector_stores",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	var vs VectorStore
	if err := decodeJSON(resp, &vs); err != nil {
		return nil, err
	}
	return &vs, nil
}

// List returns vector stores, newest first.
func (s *VectorStoresService) List(ctx context.Context, params *ListParams) (*VectorStoreList, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/vector_stores" + params.encode(),
	})
	if err != nil {
		return nil, err
	}
	var list VectorStoreList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves one vector store.
func (s *VectorStoresService) Get(ctx context.Context, storeID string) (*VectorStore, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/vector_stores/" + storeID,
	})
	if err != nil {
		return nil, err
	}
	var vs VectorStore
	if err := decodeJSON(resp, &vs); err != nil {
		return nil, err
	}
	return &vs, nil
}

// Delete removes a vector store. Attached files are detached, not deleted.
func (s *VectorStoresService) Delete(ctx context.Context, storeID string) error {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodDelete,
		Endpoint: "/vector_stores/" + storeID,
	})
	if err != nil {
		return err
	}
	var confirmation deletionConfirmation
	if err := decodeJSON(resp, &confirmation); err != nil {
		return err
	}
	if !confirmation.Deleted {
		return &core.APIError{
			Status:  resp.StatusCode,
			Message: "server did not confirm deletion of " + storeID,
			Err:     core.ErrInvalidResponse,
		}
	}
	return nil
}

// AddFile attaches an uploaded file to the store and starts processing it.
func (s *VectorStoresService) AddFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/vector_stores/" + storeID + "/files",
		Body:     map[string]string{"file_id": fileID},
	})
	if err != nil {
		return nil, err
	}
	var vsf VectorStoreFile
	if err := decodeJSON(resp, &vsf); err != nil {
		return nil, err
	}
	return &vsf, nil
}

// ListFiles returns the store's file attachments.
func (s *VectorStoresService) ListFiles(ctx context.Context, storeID string, params *ListParams) (*VectorStoreFileList, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/vector_stores/" + storeID + "/files" + params.encode(),
	})
	if err != nil {
		return nil, err
	}
	var list VectorStoreFileList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetFile retrieves one file attachment, including its processing status.
func (s *VectorStoresService) GetFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/vector_stores/" + storeID + "/files/" + fileID,
	})
	if err != nil {
		return nil, err
	}
	var vsf VectorStoreFile
	if err := decodeJSON(resp, &vsf); err != nil {
		return nil, err
	}
	return &vsf, nil
}

// RemoveFile detaches a file from the store. The file itself is kept.
func (s *VectorStoresService) RemoveFile(ctx context.Context, storeID, fileID string) error {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodDelete,
		Endpoint: "/vector_stores/" + storeID + "/files/" + fileID,
	})
	if err != nil {
		return err
	}
	var confirmation deletionConfirmation
	if err := decodeJSON(resp, &confirmation); err != nil {
		return err
	}
	if !confirmation.Deleted {
		return &core.APIError{
			Status:  resp.StatusCode,
			Message: "server did not confirm removal of " + fileID,
			Err:     core.ErrInvalidResponse,
		}
	}
	return nil
}

// WaitUntilReady polls the store until processing completes, checking every
// interval. A failed store returns an error; cancellation returns ctx.Err().
func (s *VectorStoresService) WaitUntilReady(ctx context.Context, storeID string, interval time.Duration) (*VectorStore, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	vs, err := s.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}

	for vs.Status != VectorStoreStatusCompleted {
		if vs.Status == VectorStoreStatusFailed {
			return nil, &core.APIError{
				Message: "vector store " + storeID + " failed processing",
				Err:     core.ErrServer,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			vs, err = s.Get(ctx, storeID)
			if err != nil {
				return nil, err
			}
		}
	}

	return vs, nil
}

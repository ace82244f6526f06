package cumulo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cumulo-ai/cumulo-go/core"
)

// FilesService uploads and manages stored files.
type FilesService struct {
	dispatcher *core.Dispatcher
}

// File is a stored file.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// FileList is a page of files.
type FileList struct {
	Object  string `json:"object"`
	Data    []File `json:"data"`
	HasMore bool   `json:"has_more"`
}

// FileUploadRequest describes a file to upload. Reader is consumed fully
// before the request is sent so retries re-send identical bytes.
type FileUploadRequest struct {
	Filename string
	Purpose  string
	Reader   io.Reader
}

// FileListParams filters List. Zero values mean unset.
type FileListParams struct {
	Purpose string
	Limit   int
	After   string
}

// Upload stores a file. The purpose tells the platform what the file is for
// (for example "vector_store" or "fine_tune").
func (s *FilesService) Upload(ctx context.Context, req *FileUploadRequest) (*File, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("purpose", req.Purpose); err != nil {
		return nil, fmt.Errorf("write purpose field: %w", err)
	}
	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, req.Reader); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/files",
		Upload:   &core.UploadPayload{Data: buf.Bytes(), ContentType: w.FormDataContentType()},
	})
	if err != nil {
		return nil, err
	}
	var file File
	if err := decodeJSON(resp, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns stored files, newest first.
func (s *FilesService) List(ctx context.Context, params *FileListParams) (*FileList, error) {
	endpoint := "/files"
	if params != nil {
		q := url.Values{}
		if params.Purpose != "" {
			q.Set("purpose", params.Purpose)
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.After != "" {
			q.Set("after", params.After)
		}
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
	}

	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}
	var list FileList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a file's metadata.
func (s *FilesService) Get(ctx context.Context, fileID string) (*File, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/files/" + fileID,
	})
	if err != nil {
		return nil, err
	}
	var file File
	if err := decodeJSON(resp, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Content streams a file's raw content. The caller must close the returned
// reader.
func (s *FilesService) Content(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodGet,
		Endpoint: "/files/" + fileID + "/content",
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Delete removes a file.
func (s *FilesService) Delete(ctx context.Context, fileID string) error {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodDelete,
		Endpoint: "/files/" + fileID,
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
			Message: "server did not confirm deletion of " + fileID,
			Err:     core.ErrInvalidResponse,
		}
	}
	return nil
}

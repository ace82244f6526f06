package cumulo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cumulo-ai/cumulo-go/core"
)

func TestFilesUpload(t *testing.T) {
	var gotPurpose, gotFilename, gotContent, gotCT string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/files" {
			t.Errorf("request = %s %s, want POST /files", r.Method, r.URL.Path)
		}
		gotCT = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		gotPurpose = r.FormValue("purpose")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)

		w.Write([]byte(`{"id":"file_abc","object":"file","bytes":12,"created_at":1756000000,"filename":"notes.txt","purpose":"vector_store"}`))
	}))

	file, err := client.Files.Upload(context.Background(), &FileUploadRequest{
		Filename: "notes.txt",
		Purpose:  "vector_store",
		Reader:   strings.NewReader("hello cumulo"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if file.ID != "file_abc" {
		t.Errorf("ID = %q, want file_abc", file.ID)
	}
	if gotPurpose != "vector_store" {
		t.Errorf("purpose field = %q, want vector_store", gotPurpose)
	}
	if gotFilename != "notes.txt" {
		t.Errorf("filename = %q, want notes.txt", gotFilename)
	}
	if gotContent != "hello cumulo" {
		t.Errorf("file content = %q, want hello cumulo", gotContent)
	}
	if !strings.HasPrefix(gotCT, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q, want multipart with boundary", gotCT)
	}
}

func TestFilesList(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"object":"list","data":[{"id":"file_1"},{"id":"file_2"}],"has_more":true}`))
	}))

	list, err := client.Files.List(context.Background(), &FileListParams{
		Purpose: "vector_store",
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(list.Data) != 2 || !list.HasMore {
		t.Errorf("list = %d items, has_more %v, want 2 and true", len(list.Data), list.HasMore)
	}
	if !strings.Contains(gotQuery, "purpose=vector_store") || !strings.Contains(gotQuery, "limit=2") {
		t.Errorf("query = %q, want purpose and limit set", gotQuery)
	}
}

func TestFilesListNilParams(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"object":"list","data":[],"has_more":false}`))
	}))

	if _, err := client.Files.List(context.Background(), nil); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want none", gotQuery)
	}
}

func TestFilesGet(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"file_abc","filename":"notes.txt"}`))
	}))

	file, err := client.Files.Get(context.Background(), "file_abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotPath != "/files/file_abc" {
		t.Errorf("path = %q, want /files/file_abc", gotPath)
	}
	if file.Filename != "notes.txt" {
		t.Errorf("Filename = %q, want notes.txt", file.Filename)
	}
}

func TestFilesContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/file_abc/content" {
			t.Errorf("path = %q, want /files/file_abc/content", r.URL.Path)
		}
		w.Write([]byte("raw file bytes"))
	}))

	rc, err := client.Files.Content(context.Background(), "file_abc")
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	if string(data) != "raw file bytes" {
		t.Errorf("content = %q, want raw passthrough", data)
	}
}

func TestFilesDelete(t *testing.T) {
	var gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"id":"file_abc","object":"file","deleted":true}`))
	}))

	if err := client.Files.Delete(context.Background(), "file_abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
}

func TestFilesDeleteUnconfirmed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"file_abc","object":"file","deleted":false}`))
	}))

	err := client.Files.Delete(context.Background(), "file_abc")
	if !errors.Is(err, core.ErrInvalidResponse) {
		t.Errorf("Delete() error = %v, want ErrInvalidResponse when not confirmed", err)
	}
}

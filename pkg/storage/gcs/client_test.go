package gcs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient:    srv.Client(),
		apiBase:       srv.URL,
		publicBase:    "https://storage.googleapis.com",
		defaultBucket: "lostfound-images",
	}
}

func TestUploadSendsPreconditionAndDecodesObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload/storage/v1/b/lostfound-images/o" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ifGenerationMatch") != "0" || q.Get("uploadType") != "media" {
			t.Errorf("missing upload preconditions: %v", q)
		}
		if q.Get("name") != "user-1/abc.png" {
			t.Errorf("unexpected object name %q", q.Get("name"))
		}
		if r.Header.Get("Content-Type") != "image/png" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "png-bytes" {
			t.Errorf("unexpected body %q", body)
		}
		_, _ = io.WriteString(w, `{"bucket":"lostfound-images","name":"user-1/abc.png","contentType":"image/png","size":"9","generation":"171"}`)
	})

	obj, err := client.Upload(context.Background(), "user-1/abc.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if obj.Name != "user-1/abc.png" || obj.Size != 9 || obj.Generation != "171" {
		t.Fatalf("unexpected object %+v", obj)
	}
	if got := client.PublicURL(obj.Name); got != "https://storage.googleapis.com/lostfound-images/user-1/abc.png" {
		t.Fatalf("unexpected public url %s", got)
	}
}

func TestUploadConflictReturnsErrObjectExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})
	_, err := client.Upload(context.Background(), "user-1/dup.png", "image/png", strings.NewReader("x"))
	if !errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}
}

func TestUploadServerErrorIncludesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "permission denied")
	})
	_, err := client.Upload(context.Background(), "user-1/x.png", "image/png", strings.NewReader("x"))
	if err == nil || errors.Is(err, ErrObjectExists) || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected descriptive upload error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/lostfound-images/o" || r.URL.Query().Get("maxResults") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"items":[]}`)
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from nil client")
	}
}

package supabase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func fakeStorage(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = io.WriteString(w, `{"statusCode":"500","error":"boom","message":"boom"}`)
			return
		}
		if r.Method == http.MethodDelete {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `{"Key":"portfolio-uploads/thumbs/A1B2.webp"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestStorageClient_Upload(t *testing.T) {
	srv, requests := fakeStorage(t, http.StatusOK)
	client, err := NewStorageClient(srv.URL+"/", "service-key", "portfolio-uploads")
	require.NoError(t, err)

	err = client.Upload(context.Background(), "thumbs/A1B2.webp", []byte("RIFF"), "image/webp")

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.True(t, strings.HasPrefix(req.path, "/storage/v1/object/"))
	assert.Contains(t, req.path, "portfolio-uploads/thumbs/A1B2.webp")
}

func TestStorageClient_Delete(t *testing.T) {
	srv, requests := fakeStorage(t, http.StatusOK)
	client, err := NewStorageClient(srv.URL, "service-key", "portfolio-uploads")
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background()))
	assert.Empty(t, *requests, "no keys, no request")

	require.NoError(t, client.Delete(context.Background(), "originals/A1B2.webp", "thumbs/A1B2.webp"))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Contains(t, req.body, "originals/A1B2.webp")
	assert.Contains(t, req.body, "thumbs/A1B2.webp")
}

func TestNewStorageClient_RequiresURL(t *testing.T) {
	_, err := NewStorageClient("", "k", "b")

	assert.Error(t, err)
}

package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer x", r.Header.Get("Authorization"))
		assert.Equal(t, `{"q":"preço"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(Config{}, slog.Default())

	resp, err := client.Fetch(context.Background(), models.HTTPRequest{
		URL:     server.URL,
		Method:  "post",
		Headers: map[string]string{"Authorization": "Bearer x"},
		Body:    `{"q":"preço"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, `{"ok":true}`, resp.Body)
}

func TestClient_FetchErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, body)

		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	resp, err := New(Config{}, slog.Default()).Fetch(context.Background(), models.HTTPRequest{
		URL:  server.URL,
		Body: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "missing\n", resp.Body)
}

func TestClient_FetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := New(Config{Timeout: 20 * time.Millisecond}, slog.Default())

	_, err := client.Fetch(context.Background(), models.HTTPRequest{URL: server.URL})
	require.Error(t, err)
}

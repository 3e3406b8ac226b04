package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestBuildSearchQuery(t *testing.T) {
	assert.Equal(t, "Kyoto Japan landscape", BuildSearchQuery("Kyoto", "Japan"))
	assert.Equal(t, "Japan landscape", BuildSearchQuery("  ", "Japan"))
	assert.Equal(t, "", BuildSearchQuery("", ""))
}

func TestSearchDestinationImage(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		assert.Equal(t, "/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"photos":[{"id":1,"src":{"landscape":"https://images.pexels.com/1.jpg"}}]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("px-key", server.URL)
	imageURL, err := client.SearchDestinationImage(context.Background(), "Kyoto Japan landscape")

	require.NoError(t, err)
	assert.Equal(t, "https://images.pexels.com/1.jpg", imageURL)
	assert.Equal(t, "px-key", gotAuth)
	assert.Equal(t, "Kyoto Japan landscape", gotQuery)
}

func TestSearchDestinationImage_NoKey(t *testing.T) {
	client := NewClientWithBaseURL("", "http://127.0.0.1:1")
	imageURL, err := client.SearchDestinationImage(context.Background(), "Kyoto")
	assert.NoError(t, err)
	assert.Empty(t, imageURL)
}

func TestSearchDestinationImage_NonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("px-key", server.URL)
	_, err := client.SearchDestinationImage(context.Background(), "Kyoto")
	assert.Error(t, err)
}

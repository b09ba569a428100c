package embedder

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		e := New(Config{APIKey: "key"})
		assert.Equal(t, defaultModel, e.model)
		assert.Equal(t, defaultBaseURL, e.baseURL)
	})

	t.Run("uses custom model and trims base URL", func(t *testing.T) {
		e := New(Config{
			APIKey:  "key",
			BaseURL: "http://localhost:8080/v1/",
			Model:   "custom-model",
		})
		assert.Equal(t, "custom-model", e.model)
		assert.Equal(t, "http://localhost:8080/v1", e.baseURL)
	})
}

func fakeEmbedding(dim int, seed float64) []float64 {
	embedding := make([]float64, dim)
	for i := range embedding {
		embedding[i] = seed + float64(i)/float64(dim)
	}
	return embedding
}

func TestEmbedder_Embed(t *testing.T) {
	t.Run("successful embedding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req embedRequest
			json.NewDecoder(r.Body).Decode(&req)
			require.Equal(t, []string{"test text"}, req.Input)

			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"index": 0, "embedding": fakeEmbedding(1536, 0)},
				},
			})
		}))
		defer server.Close()

		e := New(Config{APIKey: "test-key", BaseURL: server.URL})
		embedding, err := e.Embed(context.Background(), "test text")

		require.NoError(t, err)
		assert.Len(t, embedding, 1536)
	})

	t.Run("handles error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom"}}`))
		}))
		defer server.Close()

		e := New(Config{APIKey: "test-key", BaseURL: server.URL})
		_, err := e.Embed(context.Background(), "test text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	t.Run("orders results by index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req embedRequest
			json.NewDecoder(r.Body).Decode(&req)
			require.Len(t, req.Input, 2)

			// Results arrive out of order; the index field is authoritative.
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"index": 1, "embedding": fakeEmbedding(8, 1)},
					{"index": 0, "embedding": fakeEmbedding(8, 0)},
				},
			})
		}))
		defer server.Close()

		e := New(Config{APIKey: "test-key", BaseURL: server.URL})
		embeddings, err := e.EmbedBatch(context.Background(), []string{"first", "second"})

		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.InDelta(t, 0.0, embeddings[0][0], 1e-6)
		assert.InDelta(t, 1.0, embeddings[1][0], 1e-6)
	})

	t.Run("count mismatch is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"index": 0, "embedding": fakeEmbedding(8, 0)},
				},
			})
		}))
		defer server.Close()

		e := New(Config{APIKey: "test-key", BaseURL: server.URL})
		_, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2 embeddings")
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		e := New(Config{APIKey: "test-key", BaseURL: "http://unused"})
		embeddings, err := e.EmbedBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, embeddings)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		a := []float32{1, 2, 3}
		assert.InDelta(t, 1.0, float64(CosineSimilarity(a, a)), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, float64(CosineSimilarity(a, b)), 1e-6)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 2}))
	})
}

func TestNormalize(t *testing.T) {
	normalized := Normalize([]float32{3, 4})

	var norm float64
	for _, v := range normalized {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	// Zero vectors pass through untouched.
	zero := []float32{0, 0}
	assert.Equal(t, zero, Normalize(zero))
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

func testProject() domain.Project {
	return domain.Project{ID: "T1", Name: "Bridge", Type: domain.TypeConstruction, AreaHa: 1, DurationMonths: 6, Intensity: 5}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewGeminiClient(config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func reply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(config.ProviderConfig{APIKey: "  ", BaseURL: "http://localhost"})
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestGeminiClient_Scores(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "AIR_QUALITY")

		reply(w, "AIR_QUALITY: 80\nWATER_QUALITY: 75\nBIODIVERSITY: 70\nLAND_USE: 65\nTOTAL_RISK: 27.5")
	})

	s, err := c.Scores(context.Background(), testProject())
	require.NoError(t, err)
	assert.Equal(t, domain.Scores{Air: 80, Water: 75, Biodiversity: 70, Land: 65, TotalRisk: 27.5}, s)
}

func TestGeminiClient_ScoresIncomplete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, "AIR_QUALITY: 80")
	})

	_, err := c.Scores(context.Background(), testProject())
	assert.True(t, errors.Is(err, ErrIncompleteScores))
}

func TestGeminiClient_Advisories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, "LAND: [recommendation")

		reply(w, "LAND: Terrace the slopes.")
	})

	recs, err := c.Advisories(context.Background(), testProject(), domain.Scores{Land: 40})
	require.NoError(t, err)
	assert.Equal(t, map[domain.Category]string{domain.CategoryLand: "Terrace the slopes."}, recs)
}

func TestGeminiClient_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
		})
		_, err := c.Scores(context.Background(), testProject())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key not valid")
	})

	t.Run("non-json body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		})
		_, err := c.Advisories(context.Background(), testProject(), domain.Scores{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})

	t.Run("no candidates", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})
		_, err := c.Scores(context.Background(), testProject())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "no content"))
	})

	t.Run("deadline", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.Scores(ctx, testProject())
		require.Error(t, err)
	})
}

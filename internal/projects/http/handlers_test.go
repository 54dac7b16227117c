package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/advisory"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/engine"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/impact/scoring"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/validation"
)

func setupRouter(t *testing.T, svc ProjectService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if svc == nil {
		repo := repository.NewCSVRepository(filepath.Join(t.TempDir(), "projects.csv"))
		eng := engine.New(repo, scoring.NewModel(), advisory.NewGenerator(advisory.DefaultThreshold), nil)
		rules := validation.RulesFromConfig(config.ImpactConfig{
			ProjectTypes:      []string{"construction", "mining", "agriculture"},
			IntensityMin:      1,
			IntensityMax:      10,
			IntensityDefault:  5,
			AreaMinHa:         0.01,
			DurationMinMonths: 1,
		})
		svc = service.NewProjectService(repo, eng, rules)
	}

	r := gin.New()
	New(svc).Register(r.Group("/api/v1/projects"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const bridgeJSON = `{"id":"T1","name":"Bridge","type":"construction","area_ha":1.0,"duration_months":6,"intensity":5}`

func TestHandler_CRUD(t *testing.T) {
	r := setupRouter(t, nil)

	w := do(r, http.MethodPost, "/api/v1/projects", bridgeJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "T1", body["project"].(map[string]any)["id"])

	w = do(r, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 1)

	w = do(r, http.MethodGet, "/api/v1/projects/T1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/projects/T1", `{"name":"Bridge v2","colour":"green"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Bridge v2", decode(t, w)["project"].(map[string]any)["name"])

	w = do(r, http.MethodDelete, "/api/v1/projects/T1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/projects/T1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreateErrors(t *testing.T) {
	r := setupRouter(t, nil)

	w := do(r, http.MethodPost, "/api/v1/projects", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid body", decode(t, w)["error"])

	w = do(r, http.MethodPost, "/api/v1/projects", `{"id":"T1","name":"Bridge","type":"fishing","area_ha":1,"duration_months":6}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "type", body["field"])
	assert.Equal(t, "invalid project type, must be one of: construction, mining, agriculture", body["error"])

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/projects", bridgeJSON).Code)
	w = do(r, http.MethodPost, "/api/v1/projects", bridgeJSON)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_UpdateErrors(t *testing.T) {
	r := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/projects", bridgeJSON).Code)

	w := do(r, http.MethodPatch, "/api/v1/projects/T1", `{"duration_months":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/projects/nope", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Simulate(t *testing.T) {
	r := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/projects", bridgeJSON).Code)

	w := do(r, http.MethodPost, "/api/v1/projects/T1/simulate", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)["result"].(map[string]any)
	assert.Equal(t, "T1", res["project_id"])
	assert.InDelta(t, 82.93, res["air"].(float64), 0.005)
	assert.Equal(t, "model", res["score_source"])

	w = do(r, http.MethodPost, "/api/v1/projects/nope/simulate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingService struct {
	ProjectService
}

func (failingService) Create(context.Context, validation.Fields) (*domain.Project, error) {
	return nil, &domain.StorageError{Op: "create", Err: errors.New("disk full")}
}

type undecodableAfterUpdate struct {
	ProjectService
}

func (undecodableAfterUpdate) Update(context.Context, string, validation.Fields) (bool, error) {
	return true, nil
}

func (undecodableAfterUpdate) Get(context.Context, string) (*domain.Project, bool) {
	return nil, false
}

func TestHandler_UpdateRowThatDoesNotDecode(t *testing.T) {
	r := setupRouter(t, undecodableAfterUpdate{})
	w := do(r, http.MethodPatch, "/api/v1/projects/B1", `{"name":"Fixed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "B1", body["id"])
	assert.NotContains(t, body, "project")
}

func TestHandler_StorageErrorIs500(t *testing.T) {
	r := setupRouter(t, failingService{})
	w := do(r, http.MethodPost, "/api/v1/projects", bridgeJSON)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

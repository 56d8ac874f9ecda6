package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simcross/internal/crosssim"
	"simcross/internal/errors"
)

func newTestRouter(maxObservations int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewSimulationHandler(crosssim.NewSimulator(), maxObservations, nil))
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSimulationDefaults(t *testing.T) {
	w := do(t, newTestRouter(1000), http.MethodPost, "/api/v1/simulations", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 100, resp.Payload.N)
	assert.Equal(t, 58, resp.Payload.R)
	assert.Equal(t, 14, resp.Payload.C)
	assert.Len(t, resp.Payload.Y, 100)
	assert.NoError(t, resp.Payload.Validate())
	assert.Equal(t, 100, resp.Diagnostics.N)
}

func TestCreateSimulationMatchesLibrary(t *testing.T) {
	w := do(t, newTestRouter(1000), http.MethodPost, "/api/v1/simulations",
		`{"observation_count": 250, "seed": 9, "intercept": 2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	cfg := crosssim.DefaultConfig()
	cfg.ObservationCount = 250
	cfg.Seed = 9
	cfg.Intercept = 2
	want, err := crosssim.Simulate(cfg)
	require.NoError(t, err)
	assert.Equal(t, want.RowIndex, resp.Payload.II)
	assert.Equal(t, want.ColIndex, resp.Payload.JJ)
	assert.InDeltaSlice(t, want.Value, resp.Payload.Y, 1e-12)
}

func TestCreateSimulationErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
		field  string
	}{
		{"negative variance", `{"noise_variance": -1}`, http.StatusBadRequest, errors.CodeInvalidConfiguration, "noise_variance"},
		{"bad exponent", `{"row_exponent": 3}`, http.StatusBadRequest, errors.CodeInvalidConfiguration, "row_exponent"},
		{"malformed", `{"seed": "x"`, http.StatusBadRequest, errors.CodeInvalidInput, ""},
		{"over limit", `{"observation_count": 5000}`, http.StatusRequestEntityTooLarge, errors.CodeCapacityExceeded, "observation_count"},
		{"column overflow", `{"row_exponent": 0.5, "column_exponent": 0.5}`, http.StatusUnprocessableEntity, errors.CodeCapacityExceeded, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(1000), http.MethodPost, "/api/v1/simulations", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.field, body["field"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCreateReport(t *testing.T) {
	w := do(t, newTestRouter(1000), http.MethodPost, "/api/v1/reports", `{"seed": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<td>nonempty rows</td>")
}

func TestGetDimensions(t *testing.T) {
	router := newTestRouter(1000)

	w := do(t, router, http.MethodGet, "/api/v1/dimensions?observation_count=400&row_exponent=0.5&column_exponent=0.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dims struct {
		N int `json:"observation_count"`
		R int `json:"R"`
		C int `json:"C"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dims))
	assert.Equal(t, 400, dims.N)
	assert.Equal(t, 20, dims.R)
	assert.Equal(t, 20, dims.C)

	w = do(t, router, http.MethodGet, "/api/v1/dimensions?observation_count=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodGet, "/api/v1/dimensions?column_exponent=nan-ish", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodGet, "/api/v1/dimensions?observation_count=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(10), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsCountOutcomes(t *testing.T) {
	router := newTestRouter(1000)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/v1/simulations", `{"observation_count": 50}`).Code)
	require.Equal(t, http.StatusRequestEntityTooLarge, do(t, router, http.MethodPost, "/api/v1/simulations", `{"observation_count": 5000}`).Code)

	w := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `simcross_api_simulations_total{outcome="ok"}`)
	assert.Contains(t, body, `simcross_api_simulations_total{outcome="refused"}`)
	assert.Contains(t, body, "simcross_api_simulation_duration_seconds_bucket")
	assert.Contains(t, body, "simcross_api_observations_total")
}

type brokenSimulator struct{}

func (brokenSimulator) Simulate(context.Context, crosssim.SimulationConfig) (*crosssim.SimulatedDataset, error) {
	return nil, errors.InternalError("stream unavailable")
}

func TestCreateSimulationInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(NewSimulationHandler(brokenSimulator{}, 1000, nil))

	w := do(t, router, http.MethodPost, "/api/v1/simulations", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeInternalError)
}

package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"simcross/adapters/payload"
	"simcross/internal"
	"simcross/internal/crosssim"
	"simcross/internal/errors"
	"simcross/internal/report"
	"simcross/ports"
)

// SimulationHandler serves simulations over HTTP
type SimulationHandler struct {
	simulator       ports.SimulatorPort
	maxObservations int
	logger          *internal.Logger
}

// NewSimulationHandler creates a new simulation handler. Requests asking for
// more than maxObservations observations are refused. A nil logger is silent.
func NewSimulationHandler(simulator ports.SimulatorPort, maxObservations int, logger *internal.Logger) *SimulationHandler {
	return &SimulationHandler{
		simulator:       simulator,
		maxObservations: maxObservations,
		logger:          logger,
	}
}

// SimulationResponse is the body returned by CreateSimulation
type SimulationResponse struct {
	RunID       string               `json:"run_id"`
	Payload     payload.Payload      `json:"payload"`
	Diagnostics crosssim.Diagnostics `json:"diagnostics"`
}

// RegisterRoutes mounts the simulation endpoints on r
func (h *SimulationHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/simulations", h.CreateSimulation)
	r.POST("/reports", h.CreateReport)
	r.GET("/dimensions", h.GetDimensions)
}

// NewRouter builds the engine with logging, recovery, metrics and the v1 routes
func NewRouter(h *SimulationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// CreateSimulation runs a simulation and returns its payload and diagnostics
func (h *SimulationHandler) CreateSimulation(c *gin.Context) {
	ds, ok := h.simulate(c)
	if !ok {
		return
	}

	runID := uuid.NewString()
	h.logger.Info("simulation %s: n=%d R=%d C=%d seed=%d", runID, ds.N, ds.R, ds.C, ds.Config.Seed)

	c.JSON(http.StatusOK, SimulationResponse{
		RunID:       runID,
		Payload:     payload.FromDataset(ds),
		Diagnostics: crosssim.Summarize(ds),
	})
}

// CreateReport runs a simulation and returns the HTML diagnostics report
func (h *SimulationHandler) CreateReport(c *gin.Context) {
	ds, ok := h.simulate(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(ds.Config, crosssim.Summarize(ds)))
}

// GetDimensions returns R and C for the query's observation count and exponents
func (h *SimulationHandler) GetDimensions(c *gin.Context) {
	cfg := crosssim.DefaultConfig()
	var err error
	if v := c.Query("observation_count"); v != "" {
		if cfg.ObservationCount, err = strconv.Atoi(v); err != nil {
			h.writeError(c, errors.InvalidConfiguration("observation_count", "not an integer: %q", v))
			return
		}
	}
	for _, q := range []struct {
		name string
		dst  *float64
	}{
		{"row_exponent", &cfg.RowExponent},
		{"column_exponent", &cfg.ColumnExponent},
	} {
		if v := c.Query(q.name); v != "" {
			if *q.dst, err = strconv.ParseFloat(v, 64); err != nil {
				h.writeError(c, errors.InvalidConfiguration(q.name, "not a number: %q", v))
				return
			}
		}
	}

	rows, cols, err := cfg.Dimensions()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"observation_count": cfg.ObservationCount,
		"R":                 rows,
		"C":                 cols,
	})
}

// simulate binds the request config over the defaults and runs it. It
// writes the error response itself and reports whether to continue.
func (h *SimulationHandler) simulate(c *gin.Context) (*crosssim.SimulatedDataset, bool) {
	cfg := crosssim.DefaultConfig()
	if err := c.ShouldBindJSON(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		recordSimulation("invalid", time.Time{}, 0)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
			"code":  errors.CodeInvalidInput,
		})
		return nil, false
	}

	if cfg.ObservationCount > h.maxObservations {
		h.logger.Warn("refused simulation of %d observations", cfg.ObservationCount)
		recordSimulation("refused", time.Time{}, 0)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("observation_count %d exceeds the limit of %d", cfg.ObservationCount, h.maxObservations),
			"code":  errors.CodeCapacityExceeded,
			"field": "observation_count",
		})
		return nil, false
	}

	started := time.Now()
	ds, err := h.simulator.Simulate(c.Request.Context(), cfg)
	if err != nil {
		recordSimulation(outcomeOf(err), started, 0)
		h.writeError(c, err)
		return nil, false
	}
	recordSimulation("ok", started, ds.N)
	return ds, true
}

func (h *SimulationHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidConfiguration, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeCapacityExceeded:
		status = http.StatusUnprocessableEntity
		h.logger.Debug("capacity exceeded: %v", err)
	default:
		h.logger.Error("simulation failed: %v", err)
	}

	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if field := errors.GetField(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

func outcomeOf(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeInvalidConfiguration, errors.CodeInvalidInput:
		return "invalid"
	case errors.CodeCapacityExceeded:
		return "capacity"
	}
	return "error"
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/domain"
	"github.com/persistorai/kinnet/internal/models"
)

// maxBatchGraphs caps the graphs accepted by one analyze request.
const maxBatchGraphs = 64

// NetworkHandler serves network build, analysis and export endpoints.
type NetworkHandler struct {
	svc domain.NetworkService
	log *logrus.Logger
}

// NewNetworkHandler creates a NetworkHandler.
func NewNetworkHandler(svc domain.NetworkService, log *logrus.Logger) *NetworkHandler {
	return &NetworkHandler{svc: svc, log: log}
}

// graphRequest carries a single graph for analysis, layout or centrality.
type graphRequest struct {
	Graph *models.GraphModel `json:"graph"`
}

// analyzeRequest carries either one graph or a batch.
type analyzeRequest struct {
	Graph  *models.GraphModel  `json:"graph"`
	Graphs []models.GraphModel `json:"graphs"`
}

type exportRequest struct {
	Graph  *models.GraphModel `json:"graph"`
	Format string             `json:"format"`
}

type batchMetricsResponse struct {
	Metrics []models.GraphMetrics `json:"metrics"`
}

// Build handles POST /network.
func (h *NetworkHandler) Build(c *gin.Context) {
	var req models.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	network, err := h.svc.BuildNetwork(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, h.log, "network.build", err)

		return
	}

	c.JSON(http.StatusOK, network)
}

// Analyze handles POST /network/analyze. A "graphs" array is analyzed as a
// batch and answered in the same order.
func (h *NetworkHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	switch {
	case req.Graph != nil && req.Graphs != nil:
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "send either graph or graphs, not both")
	case req.Graph != nil:
		m, err := h.svc.Analyze(c.Request.Context(), req.Graph)
		if err != nil {
			handleServiceError(c, h.log, "network.analyze", err)

			return
		}

		c.JSON(http.StatusOK, m)
	case req.Graphs != nil:
		if len(req.Graphs) > maxBatchGraphs {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "too many graphs in batch")

			return
		}

		ms, err := h.svc.AnalyzeBatch(c.Request.Context(), req.Graphs)
		if err != nil {
			handleServiceError(c, h.log, "network.analyze_batch", err)

			return
		}

		c.JSON(http.StatusOK, batchMetricsResponse{Metrics: ms})
	default:
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "graph is required")
	}
}

// Centrality handles POST /network/centrality.
func (h *NetworkHandler) Centrality(c *gin.Context) {
	g, ok := bindGraph(c)
	if !ok {
		return
	}

	scores, err := h.svc.Centrality(c.Request.Context(), g)
	if err != nil {
		handleServiceError(c, h.log, "network.centrality", err)

		return
	}

	c.JSON(http.StatusOK, scores)
}

// Layout handles POST /network/layout.
func (h *NetworkHandler) Layout(c *gin.Context) {
	g, ok := bindGraph(c)
	if !ok {
		return
	}

	placed, err := h.svc.Layout(c.Request.Context(), g)
	if err != nil {
		handleServiceError(c, h.log, "network.layout", err)

		return
	}

	c.JSON(http.StatusOK, placed)
}

// Export handles POST /network/export. The body is returned as produced by
// the exporter.
func (h *NetworkHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Graph == nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "graph is required")

		return
	}

	if req.Format == "" {
		req.Format = models.FormatInterchange
	}

	data, err := h.svc.ExportGraph(req.Graph, req.Format)
	if err != nil {
		handleServiceError(c, h.log, "network.export", err)

		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Import handles POST /network/import; the body is an interchange document.
func (h *NetworkHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unreadable request body")

		return
	}

	g, err := h.svc.ImportGraph(data)
	if err != nil {
		handleServiceError(c, h.log, "network.import", err)

		return
	}

	c.JSON(http.StatusOK, g)
}

func bindGraph(c *gin.Context) (*models.GraphModel, bool) {
	var req graphRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Graph == nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "graph is required")

		return nil, false
	}

	return req.Graph, true
}

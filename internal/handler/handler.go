package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MarcelloBorromeo/SearchSift/docs"
	"github.com/MarcelloBorromeo/SearchSift/internal/dto"
	"github.com/MarcelloBorromeo/SearchSift/internal/report"
	"github.com/MarcelloBorromeo/SearchSift/internal/service"
)

// Config holds the handler's auth, CORS, and report-serving settings.
type Config struct {
	APIKey         string
	AllowedOrigins []string
	ReportsDir     string
}

type Handler struct {
	searchService service.SearchServicer
	renderer      *report.Renderer
	config        Config
	router        *gin.Engine
	log           *zap.Logger
}

func NewHandler(searchService service.SearchServicer, renderer *report.Renderer, cfg Config, log *zap.Logger) *Handler {
	h := &Handler{
		searchService: searchService,
		renderer:      renderer,
		config:        cfg,
		router:        gin.Default(),
		log:           log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	// Router-level so OPTIONS preflights are answered before route matching.
	h.router.Use(ExtensionCORS(h.config.AllowedOrigins, h.log))

	h.router.GET("/health", h.healthCheck)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := h.router.Group("/")
	authed.Use(APIKeyAuth(h.config.APIKey, h.log))

	authed.POST("/ingest", h.ingest)
	authed.POST("/ingest/async", h.ingestAsync)
	authed.GET("/api/summary", h.getSummary)
	authed.GET("/api/records", h.getRecords)
	authed.GET("/api/category-trend", h.getCategoryTrend)
	authed.GET("/report/daily", h.getDailyReport)
	authed.GET("/report/csv", h.getCSVExport)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseBatch decodes an ingest body. A bare event object with a query
// field is accepted as a one-event batch.
func parseBatch(body []byte) ([]dto.EventPayload, bool) {
	var req dto.IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, false
	}
	if len(req.Events) > 0 {
		return req.Events, true
	}

	var single dto.EventPayload
	if err := json.Unmarshal(body, &single); err != nil || single.Query == "" {
		return nil, false
	}
	return []dto.EventPayload{single}, true
}

// ingest handles POST /ingest
// @Summary Ingest search events
// @Description Validate, deduplicate, categorize, and store a batch of search events
// @Tags ingest
// @Accept json
// @Produce json
// @Param batch body dto.IngestRequest true "Event batch"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /ingest [post]
func (h *Handler) ingest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "no_json_body",
		})
		return
	}

	events, ok := parseBatch(body)
	if !ok {
		h.log.Warn("Malformed ingest batch", zap.Int("body_size", len(body)))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "no events provided",
		})
		return
	}

	result, err := h.searchService.IngestBatch(c.Request.Context(), events)
	if err != nil {
		h.log.Error("Failed to ingest batch",
			zap.Error(err),
			zap.Int("event_count", len(events)))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Batch ingested",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))

	c.JSON(http.StatusOK, result)
}

// ingestAsync handles POST /ingest/async
// @Summary Enqueue search events
// @Description Publish a batch of search events to the ingestion queue for asynchronous processing
// @Tags ingest
// @Accept json
// @Produce json
// @Param batch body dto.IngestRequest true "Event batch"
// @Success 202 {object} dto.EnqueueResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /ingest/async [post]
func (h *Handler) ingestAsync(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "no_json_body",
		})
		return
	}

	events, ok := parseBatch(body)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "no events provided",
		})
		return
	}

	if err := h.searchService.EnqueueBatch(c.Request.Context(), events); err != nil {
		h.log.Error("Failed to enqueue batch",
			zap.Error(err),
			zap.Int("event_count", len(events)))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.EnqueueResponse{
		Status: "queued",
		Queued: len(events),
	})
}

// getSummary handles GET /api/summary
// @Summary Get aggregated statistics
// @Description Retrieve totals, category/engine breakdowns, and top queries for a date range
// @Tags reports
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/summary [get]
func (h *Handler) getSummary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.searchService.GetSummary(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getRecords handles GET /api/records
// @Summary List search records
// @Description Retrieve individual records with date, category, engine, and type filters
// @Tags reports
// @Produce json
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param category query string false "Filter by category"
// @Param engine query string false "Filter by engine"
// @Param type query string false "Filter by event type" Enums(search, click)
// @Param limit query int false "Max results (default 100, max 1000)"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} dto.RecordsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/records [get]
func (h *Handler) getRecords(c *gin.Context) {
	var req dto.RecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.searchService.GetRecords(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getCategoryTrend handles GET /api/category-trend
// @Summary Get category trend
// @Description Retrieve per-bucket per-category counts over a date range
// @Tags reports
// @Produce json
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param bucket query string false "Bucket granularity (auto-detected when omitted)" Enums(hour, day)
// @Success 200 {object} dto.TrendResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/category-trend [get]
func (h *Handler) getCategoryTrend(c *gin.Context) {
	var req dto.TrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.searchService.GetCategoryTrend(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get category trend", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getDailyReport handles GET /report/daily
// @Summary Get daily HTML report
// @Description Serve the pre-rendered report file when present, otherwise render on the fly
// @Tags reports
// @Produce html
// @Param date query string false "Report date (YYYY-MM-DD, default yesterday)"
// @Success 200 {string} string "HTML report"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /report/daily [get]
func (h *Handler) getDailyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}

	if path := report.HTMLPath(h.config.ReportsDir, date); fileExists(path) {
		c.File(path)
		return
	}

	data, err := h.searchService.GetDailyReport(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.RenderHTML(c.Writer, data); err != nil {
		h.log.Error("Failed to render daily report", zap.Error(err))
	}
}

// getCSVExport handles GET /report/csv
// @Summary Export records as CSV
// @Description Serve the pre-rendered CSV file for a single date when present, otherwise export the range on the fly
// @Tags reports
// @Produce plain
// @Param date query string false "Start date (default yesterday)"
// @Param end query string false "End date"
// @Success 200 {string} string "CSV export"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /report/csv [get]
func (h *Handler) getCSVExport(c *gin.Context) {
	date := c.Query("date")
	end := c.Query("end")

	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}
	if end == "" {
		end = date
	}

	if date == end {
		if path := report.CSVPath(h.config.ReportsDir, date); fileExists(path) {
			c.FileAttachment(path, date+".csv")
			return
		}
	}

	records, err := h.searchService.RecordsInRange(c.Request.Context(), date, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="searchsift_`+date+`_`+end+`.csv"`)
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, records); err != nil {
		h.log.Error("Failed to write CSV export", zap.Error(err))
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

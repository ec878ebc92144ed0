package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mjvanrooyen/claimflow/internal/application/service"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService    service.ClaimService
	workflowService service.WorkflowService
	documentService service.DocumentService
	summaryService  service.SummaryService
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	claimService service.ClaimService,
	workflowService service.WorkflowService,
	documentService service.DocumentService,
	summaryService service.SummaryService,
	logger Logger,
) *Handlers {
	return &Handlers{
		claimService:    claimService,
		workflowService: workflowService,
		documentService: documentService,
		summaryService:  summaryService,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// CreateClaimRequest is the body for POST /api/claims
type CreateClaimRequest struct {
	LecturerName string `json:"lecturer_name"`
	ModuleCode   string `json:"module_code"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
}

// AddLineItemRequest is the body for POST /api/claims/:id/items
type AddLineItemRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Hours       float64 `json:"hours"`
	RatePerHour float64 `json:"rate_per_hour"`
	Notes       string  `json:"notes"`
}

// SetStatusRequest is the body for POST /api/claims/:id/status
type SetStatusRequest struct {
	Status string `json:"status"`
}

// DecisionRequest is the body for the decision endpoints
type DecisionRequest struct {
	Approve bool `json:"approve"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateClaim handles POST /api/claims
func (h *Handlers) CreateClaim(c *gin.Context) {
	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	claim, err := h.claimService.Create(c.Request.Context(), actorFrom(c), service.CreateClaimInput{
		LecturerName: req.LecturerName,
		ModuleCode:   req.ModuleCode,
		Year:         req.Year,
		Month:        req.Month,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: claim})
}

// ListClaims handles GET /api/claims
func (h *Handlers) ListClaims(c *gin.Context) {
	claims, err := h.claimService.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	claim, err := h.claimService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claim})
}

// ReviewQueue handles GET /api/claims/review
func (h *Handlers) ReviewQueue(c *gin.Context) {
	claims, err := h.claimService.ReviewQueue(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// ClaimHistory handles GET /api/claims/:id/history
func (h *Handlers) ClaimHistory(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	history, err := h.workflowService.HistoryFor(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// AddLineItem handles POST /api/claims/:id/items
func (h *Handlers) AddLineItem(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	var req AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	item, err := h.claimService.AddLineItem(c.Request.Context(), id, actorFrom(c), service.AddLineItemInput{
		Date:        date,
		Hours:       req.Hours,
		RatePerHour: req.RatePerHour,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// UploadDocument handles POST /api/claims/:id/documents (multipart)
func (h *Handlers) UploadDocument(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "please choose a file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), id, actorFrom(c), service.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// SetStatus handles POST /api/claims/:id/status
func (h *Handlers) SetStatus(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	status, ok := workflow.ParseStatus(req.Status)
	if !ok {
		h.badRequest(c, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	result, err := h.workflowService.ApplyTransition(c.Request.Context(), id, actorFrom(c), status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// CoordinatorDecision handles POST /api/claims/:id/coordinator-decision
func (h *Handlers) CoordinatorDecision(c *gin.Context) {
	h.decision(c, h.workflowService.CoordinatorDecision)
}

// ManagerDecision handles POST /api/claims/:id/manager-decision
func (h *Handlers) ManagerDecision(c *gin.Context) {
	h.decision(c, h.workflowService.ManagerDecision)
}

func (h *Handlers) decision(c *gin.Context, apply func(ctx context.Context, claimID int64, actor workflow.Actor, approve bool) (*service.TransitionResult, error)) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := apply(c.Request.Context(), id, actorFrom(c), req.Approve)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// DeleteClaim handles DELETE /api/claims/:id
func (h *Handlers) DeleteClaim(c *gin.Context) {
	id, ok := h.claimID(c)
	if !ok {
		return
	}

	if err := h.claimService.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Summary handles GET /api/hr/summary
func (h *Handlers) Summary(c *gin.Context) {
	year, month := h.periodFilter(c)
	summaries, err := h.summaryService.Summarize(c.Request.Context(), year, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summaries})
}

// SummaryDetail handles GET /api/hr/summary/detail
func (h *Handlers) SummaryDetail(c *gin.Context) {
	year, month := h.periodFilter(c)
	detail, err := h.summaryService.Detail(c.Request.Context(), c.Query("lecturer"), year, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: detail})
}

// ExportSummary handles GET /api/hr/summary/export
func (h *Handlers) ExportSummary(c *gin.Context) {
	year, month := h.periodFilter(c)
	workbook, err := h.summaryService.ExportWorkbook(c.Request.Context(), year, month)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="claim-summary.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook)
}

func (h *Handlers) claimID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "invalid claim id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) periodFilter(c *gin.Context) (int, int) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	return year, month
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto status codes without leaking
// internal detail
func (h *Handlers) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var terr *workflow.TransitionError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	case errors.As(err, &terr):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: terr.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "operation not permitted"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "validation failed",
			Fields:  verr.Fields,
		})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: "claim was modified concurrently, retry"})
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

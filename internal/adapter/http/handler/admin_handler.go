package handler

import (
	"math"
	"strings"

	"simple-atm/internal/adapter/http/dto"
	"simple-atm/internal/adapter/http/middleware"
	"simple-atm/internal/core/ports"
	"simple-atm/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultJournalPageSize = 20

// AdminHandler handles operator login, inventory reset and the journal.
type AdminHandler struct {
	adminSvc   ports.AdminService
	atmSvc     ports.ATMService
	journalSvc ports.JournalService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService, atmSvc ports.ATMService, journalSvc ports.JournalService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, atmSvc: atmSvc, journalSvc: journalSvc}
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	token, expiry, err := h.adminSvc.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// Reset handles POST /api/v1/admin/reset.
func (h *AdminHandler) Reset(c *gin.Context) {
	telemetry, err := h.atmSvc.Reset(c.Request.Context(), ports.ResetRequest{
		Subject:   c.GetString(middleware.CtxAdminSubject),
		RequestID: response.RequestID(c),
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTelemetryResponse(telemetry))
}

// ListJournal handles GET /api/v1/admin/journal.
func (h *AdminHandler) ListJournal(c *gin.Context) {
	var q dto.JournalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultJournalPageSize
	}

	params := ports.JournalListParams{Page: q.Page, PageSize: q.PageSize}
	if kind, ok := dto.ParseJournalKind(q.Kind); ok {
		params.Kind = &kind
	}

	entries, total, err := h.journalSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.JournalEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewJournalEntryResponse(&entries[i]))
	}

	response.OK(c, dto.JournalListResponse{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	})
}

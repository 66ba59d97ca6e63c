package handler

import (
	"simple-atm/internal/adapter/http/dto"
	"simple-atm/internal/adapter/http/middleware"
	"simple-atm/internal/core/ports"
	"simple-atm/pkg/apperror"
	"simple-atm/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxIdempotencyKeyLen = 128

// ATMHandler handles the telemetry, deposit and withdrawal endpoints.
type ATMHandler struct {
	atmSvc ports.ATMService
}

// NewATMHandler creates a new ATMHandler.
func NewATMHandler(atmSvc ports.ATMService) *ATMHandler {
	return &ATMHandler{atmSvc: atmSvc}
}

// Telemetry handles GET /api/v1/simple.
func (h *ATMHandler) Telemetry(c *gin.Context) {
	response.OK(c, dto.NewTelemetryResponse(h.atmSvc.Telemetry(c.Request.Context())))
}

// Deposit handles POST /api/v1/simple/deposit.
func (h *ATMHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	receipt, err := h.atmSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		Bills:          req.ToBills(),
		IdempotencyKey: key,
		RequestID:      response.RequestID(c),
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewReceiptResponse(receipt))
}

// Withdraw handles POST /api/v1/simple/withdraw.
func (h *ATMHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	receipt, err := h.atmSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		Amount:         req.Total,
		IdempotencyKey: key,
		RequestID:      response.RequestID(c),
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewReceiptResponse(receipt))
}

// idempotencyKey reads the optional Idempotency-Key header, writing a 400
// and returning false when it is too long.
func idempotencyKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(middleware.HeaderIdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters"))
		return "", false
	}
	return key, true
}

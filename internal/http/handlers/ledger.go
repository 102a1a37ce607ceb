package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/feedmill/feedmill-backend/internal/http/response"
	"github.com/feedmill/feedmill-backend/internal/services"
)

type LedgerHandler struct {
	ledger services.LedgerService
}

func NewLedgerHandler(ledger services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// POST /materials/:id/receive
// body: { "quantity_kg": 1000, "unit_cost": "10.50", "reference": "PO-1001" }
func (h *LedgerHandler) Receive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		QuantityKg float64         `json:"quantity_kg"`
		UnitCost   decimal.Decimal `json:"unit_cost"`
		Reference  string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}

	mat, mv, err := h.ledger.ReceiveStock(c.Request.Context(), id, req.QuantityKg, req.UnitCost, req.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"material": mat, "movement": mv})
}

// POST /materials/:id/issue
// body: { "quantity_kg": 300, "reference": "BATCH-7" }
func (h *LedgerHandler) Issue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		QuantityKg float64 `json:"quantity_kg"`
		Reference  string  `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}

	mat, mv, err := h.ledger.IssueStock(c.Request.Context(), id, req.QuantityKg, req.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"material": mat, "movement": mv})
}

// GET /materials/:id/movements?from=2026-01-01T00:00:00Z&to=...
func (h *LedgerHandler) ListMovements(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	list, err := h.ledger.ListMovements(c.Request.Context(), id, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"movements": list})
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.RespondError(c, 400, "invalid_"+name, err)
		return nil, false
	}
	return &t, true
}

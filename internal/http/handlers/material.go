package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/feedmill/feedmill-backend/internal/http/response"
	"github.com/feedmill/feedmill-backend/internal/services"
)

type MaterialHandler struct {
	materials services.MaterialService
}

func NewMaterialHandler(materials services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req struct {
		Name                string          `json:"name"`
		CrudeProteinPct     float64         `json:"crude_protein_pct"`
		MetabolizableEnergy float64         `json:"metabolizable_energy"`
		CalciumPct          float64         `json:"calcium_pct"`
		FatPct              float64         `json:"fat_pct"`
		FiberPct            float64         `json:"fiber_pct"`
		AshPct              float64         `json:"ash_pct"`
		CostPerKg           decimal.Decimal `json:"cost_per_kg"`
		MinStockKg          float64         `json:"min_stock_kg"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}

	m, err := h.materials.Create(c.Request.Context(), services.CreateMaterialInput{
		Name:                req.Name,
		CrudeProteinPct:     req.CrudeProteinPct,
		MetabolizableEnergy: req.MetabolizableEnergy,
		CalciumPct:          req.CalciumPct,
		FatPct:              req.FatPct,
		FiberPct:            req.FiberPct,
		AshPct:              req.AshPct,
		CostPerKg:           req.CostPerKg,
		MinStockKg:          req.MinStockKg,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"material": m})
}

// GET /materials?include_archived=true
func (h *MaterialHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	list, err := h.materials.List(c.Request.Context(), includeArchived)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"materials": list})
}

// GET /materials/low-stock
func (h *MaterialHandler) ListLowStock(c *gin.Context) {
	list, err := h.materials.ListLowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"materials": list})
}

// GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.materials.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"material": m})
}

// PATCH /materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Name                *string  `json:"name"`
		CrudeProteinPct     *float64 `json:"crude_protein_pct"`
		MetabolizableEnergy *float64 `json:"metabolizable_energy"`
		CalciumPct          *float64 `json:"calcium_pct"`
		FatPct              *float64 `json:"fat_pct"`
		FiberPct            *float64 `json:"fiber_pct"`
		AshPct              *float64 `json:"ash_pct"`
		MinStockKg          *float64 `json:"min_stock_kg"`
		Locked              *bool    `json:"locked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}

	m, err := h.materials.Update(c.Request.Context(), id, services.UpdateMaterialInput{
		Name:                req.Name,
		CrudeProteinPct:     req.CrudeProteinPct,
		MetabolizableEnergy: req.MetabolizableEnergy,
		CalciumPct:          req.CalciumPct,
		FatPct:              req.FatPct,
		FiberPct:            req.FiberPct,
		AshPct:              req.AshPct,
		MinStockKg:          req.MinStockKg,
		Locked:              req.Locked,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"material": m})
}

// POST /materials/:id/archive
func (h *MaterialHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.materials.Archive(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /materials/:id/unarchive
func (h *MaterialHandler) Unarchive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.materials.Unarchive(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

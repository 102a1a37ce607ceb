package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feedmill/feedmill-backend/internal/http/response"
	"github.com/feedmill/feedmill-backend/internal/services"
)

type FormulationHandler struct {
	formulations services.FormulationService
}

func NewFormulationHandler(formulations services.FormulationService) *FormulationHandler {
	return &FormulationHandler{formulations: formulations}
}

type generateRequest struct {
	Name        string    `json:"name"`
	ProfileID   uuid.UUID `json:"profile_id"`
	BatchSizeKg float64   `json:"batch_size_kg"`
}

// POST /formulations/preview
// Runs the generator without saving, for the "what would this cost" view.
func (h *FormulationHandler) Preview(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}
	res, err := h.formulations.Generate(c.Request.Context(), req.ProfileID, req.BatchSizeKg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// POST /formulations
// Generates and saves as a draft in one call.
func (h *FormulationHandler) Create(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}
	res, err := h.formulations.Generate(c.Request.Context(), req.ProfileID, req.BatchSizeKg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	f, err := h.formulations.Save(c.Request.Context(), req.Name, req.ProfileID, res)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"formulation": f, "result": res})
}

// GET /formulations
func (h *FormulationHandler) List(c *gin.Context) {
	list, err := h.formulations.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formulations": list})
}

// GET /formulations/:id
func (h *FormulationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, err := h.formulations.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formulation": f})
}

// POST /formulations/:id/regenerate
func (h *FormulationHandler) Regenerate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, err := h.formulations.Regenerate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formulation": f})
}

// POST /formulations/:id/finalize
func (h *FormulationHandler) Finalize(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, err := h.formulations.Finalize(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formulation": f})
}

// POST /formulations/:id/unfinalize
func (h *FormulationHandler) Unfinalize(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, err := h.formulations.Unfinalize(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"formulation": f})
}

// POST /formulations/:id/archive
func (h *FormulationHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.formulations.Archive(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /formulations/:id
func (h *FormulationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.formulations.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/feedmill/feedmill-backend/internal/http/response"
	"github.com/feedmill/feedmill-backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Name       string             `json:"name"`
	Stage      string             `json:"stage"`
	Targets    map[string]float64 `json:"targets"`
	Mandatory  []string           `json:"mandatory"`
	Restricted []string           `json:"restricted"`
}

func (r profileRequest) toInput() services.ProfileInput {
	return services.ProfileInput{
		Name:       r.Name,
		Stage:      r.Stage,
		Targets:    r.Targets,
		Mandatory:  r.Mandatory,
		Restricted: r.Restricted,
	}
}

// POST /profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}
	p, err := h.profiles.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"profile": p})
}

// GET /profiles
func (h *ProfileHandler) List(c *gin.Context) {
	list, err := h.profiles.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": list})
}

// GET /profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// PUT /profiles/:id
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, 400, "invalid_request", err)
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// DELETE /profiles/:id
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.profiles.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

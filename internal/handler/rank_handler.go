package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// RankHandler handles rank catalog HTTP requests
type RankHandler struct {
	rankService service.RankService
}

// NewRankHandler creates a new RankHandler
func NewRankHandler(rankService service.RankService) *RankHandler {
	return &RankHandler{rankService: rankService}
}

// Create adds a rank to the catalog
// POST /api/v1/ranks
func (h *RankHandler) Create(c *gin.Context) {
	var req dto.CreateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rank, err := h.rankService.Create(c.Request.Context(), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Created(c, rank)
}

// Get retrieves a rank
// GET /api/v1/ranks/:id
func (h *RankHandler) Get(c *gin.Context) {
	rank, err := h.rankService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, rank)
}

// List retrieves the rank catalog ordered by hierarchy
// GET /api/v1/ranks
func (h *RankHandler) List(c *gin.Context) {
	ranks, err := h.rankService.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, ranks)
}

// Delete removes a rank
// DELETE /api/v1/ranks/:id
func (h *RankHandler) Delete(c *gin.Context) {
	if err := h.rankService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "rank removed"})
}

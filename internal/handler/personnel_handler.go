package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// PersonnelHandler handles personnel registry HTTP requests
type PersonnelHandler struct {
	personnelService service.PersonnelService
}

// NewPersonnelHandler creates a new PersonnelHandler
func NewPersonnelHandler(personnelService service.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnelService: personnelService}
}

// Create registers a new force member
// POST /api/v1/personnel
func (h *PersonnelHandler) Create(c *gin.Context) {
	var req dto.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.personnelService.Create(c.Request.Context(), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Created(c, p)
}

// Get retrieves a force member
// GET /api/v1/personnel/:id
func (h *PersonnelHandler) Get(c *gin.Context) {
	p, err := h.personnelService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, p)
}

// List retrieves all force members
// GET /api/v1/personnel
func (h *PersonnelHandler) List(c *gin.Context) {
	list, err := h.personnelService.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, list)
}

// Update modifies a force member record
// PATCH /api/v1/personnel/:id
func (h *PersonnelHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.personnelService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, p)
}

// Delete removes a force member record
// DELETE /api/v1/personnel/:id
func (h *PersonnelHandler) Delete(c *gin.Context) {
	if err := h.personnelService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "personnel removed"})
}

// writeDomainError maps domain errors from registry services to HTTP
// responses
func writeDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsUnauthorizedError(err):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, "internal error")
	}
}

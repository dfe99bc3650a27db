package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// VehicleHandler handles fleet registry HTTP requests
type VehicleHandler struct {
	vehicleService service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Create registers a vehicle
// POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	v, err := h.vehicleService.Create(c.Request.Context(), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Created(c, v)
}

// Get retrieves a vehicle
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.vehicleService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, v)
}

// List retrieves the fleet
// GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	vehicles, err := h.vehicleService.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, vehicles)
}

// Update modifies a vehicle or its assignment
// PATCH /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	v, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, v)
}

// Delete removes a vehicle
// DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "vehicle removed"})
}

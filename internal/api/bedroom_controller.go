package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"smartapartment/server/internal/services"

	"github.com/gin-gonic/gin"
)

type BedroomController struct {
	service *services.BedroomService
}

func NewBedroomController(service *services.BedroomService) *BedroomController {
	return &BedroomController{service: service}
}

// bedroomRequest - тело запроса на создание/переименование спальни
type bedroomRequest struct {
	Name string `json:"name"`
}

// parseUintParam разбирает числовой path-параметр
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}

// GetBedrooms возвращает список всех спален
// GET /api/bedrooms
func (bc *BedroomController) GetBedrooms(c *gin.Context) {
	bedrooms, err := bc.service.GetAllBedrooms()
	if err != nil {
		log.Printf("❌ Error fetching bedrooms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, bedrooms)
}

// GetBedroom возвращает спальню по ID
// GET /api/bedrooms/:id
func (bc *BedroomController) GetBedroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	bedroom, err := bc.service.GetBedroomByID(id)
	if err != nil {
		if errors.Is(err, services.ErrBedroomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bedroom not found"})
			return
		}
		log.Printf("❌ Error fetching bedroom by ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, bedroom)
}

// CreateBedroom создает новую спальню
// POST /api/bedrooms
func (bc *BedroomController) CreateBedroom(c *gin.Context) {
	var req bedroomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bedroom name is required"})
		return
	}

	bedroom, err := bc.service.CreateBedroom(req.Name)
	if err != nil {
		log.Printf("❌ Error inserting bedroom: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, bedroom)
}

// UpdateBedroom переименовывает спальню
// PUT /api/bedrooms/:id
func (bc *BedroomController) UpdateBedroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req bedroomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bedroom name is required"})
		return
	}

	bedroom, err := bc.service.UpdateBedroom(id, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrBedroomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bedroom not found"})
			return
		}
		log.Printf("❌ Error updating bedroom: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, bedroom)
}

// DeleteBedroom удаляет спальню
// DELETE /api/bedrooms/:id
func (bc *BedroomController) DeleteBedroom(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.service.DeleteBedroom(id); err != nil {
		if errors.Is(err, services.ErrBedroomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bedroom not found"})
			return
		}
		log.Printf("❌ Error deleting bedroom: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bedroom deleted"})
}

package api

import (
	"errors"
	"log"
	"net/http"

	"smartapartment/server/internal/services"

	"github.com/gin-gonic/gin"
)

type EnvironmentController struct {
	service *services.EnvironmentService
}

func NewEnvironmentController(service *services.EnvironmentService) *EnvironmentController {
	return &EnvironmentController{service: service}
}

// environmentRequest - тело запроса на вставку/обновление показания
// Указатели, чтобы отличать отсутствующее поле от нуля
type environmentRequest struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// GetEnvironment возвращает показания спальни, новые первыми
// GET /api/bedrooms/:id/environment
func (ec *EnvironmentController) GetEnvironment(c *gin.Context) {
	bedroomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	readings, err := ec.service.ListByBedroom(bedroomID)
	if err != nil {
		log.Printf("❌ Error fetching environment data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, readings)
}

// GetLatestEnvironment возвращает последнее показание спальни
// GET /api/bedrooms/:id/environment/latest
func (ec *EnvironmentController) GetLatestEnvironment(c *gin.Context) {
	bedroomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	reading, err := ec.service.GetLatestReading(bedroomID)
	if err != nil {
		if errors.Is(err, services.ErrBedroomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bedroom not found"})
			return
		}
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No readings for this bedroom"})
			return
		}
		log.Printf("❌ Error fetching latest reading: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, reading)
}

// CreateEnvironment вставляет показание для спальни
// POST /api/bedrooms/:id/environment
func (ec *EnvironmentController) CreateEnvironment(c *gin.Context) {
	bedroomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Temperature == nil || req.Humidity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Temperature and humidity are required."})
		return
	}

	reading, err := ec.service.InsertExplicit(bedroomID, *req.Temperature, *req.Humidity)
	if err != nil {
		if errors.Is(err, services.ErrBedroomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bedroom not found"})
			return
		}
		log.Printf("❌ Error inserting environment data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// UpdateEnvironment обновляет температуру/влажность показания
// PUT /api/bedrooms/:id/environment/:recordId
func (ec *EnvironmentController) UpdateEnvironment(c *gin.Context) {
	bedroomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	recordID, ok := parseUintParam(c, "recordId")
	if !ok {
		return
	}

	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Temperature == nil || req.Humidity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Temperature and humidity are required."})
		return
	}

	reading, err := ec.service.Update(recordID, bedroomID, *req.Temperature, *req.Humidity)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found for this bedroom."})
			return
		}
		log.Printf("❌ Error updating environment data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, reading)
}

// DeleteEnvironment удаляет показание по ID
// DELETE /api/bedrooms/environment/:id
func (ec *EnvironmentController) DeleteEnvironment(c *gin.Context) {
	recordID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	reading, err := ec.service.Delete(recordID)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		log.Printf("❌ Error deleting environment data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted", "record": reading})
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartapartment/server/internal/models"
	"smartapartment/server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRouter поднимает роутер с in-memory SQLite, как в main.go
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	bedroomController := NewBedroomController(services.NewBedroomService(db))
	environmentController := NewEnvironmentController(services.NewEnvironmentService(db, nil, nil))

	r := gin.New()
	apiGroup := r.Group("/api")
	bedroomGroup := apiGroup.Group("/bedrooms")
	{
		bedroomGroup.GET("", bedroomController.GetBedrooms)
		bedroomGroup.POST("", bedroomController.CreateBedroom)
		bedroomGroup.DELETE("/environment/:id", environmentController.DeleteEnvironment)
		bedroomGroup.GET("/:id", bedroomController.GetBedroom)
		bedroomGroup.PUT("/:id", bedroomController.UpdateBedroom)
		bedroomGroup.DELETE("/:id", bedroomController.DeleteBedroom)
		bedroomGroup.GET("/:id/environment", environmentController.GetEnvironment)
		bedroomGroup.POST("/:id/environment", environmentController.CreateEnvironment)
		bedroomGroup.GET("/:id/environment/latest", environmentController.GetLatestEnvironment)
		bedroomGroup.PUT("/:id/environment/:recordId", environmentController.UpdateEnvironment)
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnvironmentEndpointsRoundTrip(t *testing.T) {
	r := setupTestRouter(t)

	// Создаем спальню
	w := doJSON(t, r, http.MethodPost, "/api/bedrooms", gin.H{"name": "Bedroom 1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create bedroom: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var bedroom models.Bedroom
	if err := json.Unmarshal(w.Body.Bytes(), &bedroom); err != nil {
		t.Fatalf("decode bedroom: %v", err)
	}

	// Вставляем показание
	envPath := fmt.Sprintf("/api/bedrooms/%d/environment", bedroom.ID)
	w = doJSON(t, r, http.MethodPost, envPath, gin.H{"temperature": 24.5, "humidity": 45.0})
	if w.Code != http.StatusCreated {
		t.Fatalf("insert reading: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var reading models.EnvironmentReading
	if err := json.Unmarshal(w.Body.Bytes(), &reading); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if reading.RoomName != "Bedroom 1" {
		t.Fatalf("expected room_name snapshot, got %q", reading.RoomName)
	}

	// Список показаний
	w = doJSON(t, r, http.MethodGet, envPath, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list readings: expected 200, got %d", w.Code)
	}
	var readings []models.EnvironmentReading
	if err := json.Unmarshal(w.Body.Bytes(), &readings); err != nil {
		t.Fatalf("decode readings: %v", err)
	}
	if len(readings) != 1 || readings[0].Temperature != 24.5 || readings[0].Humidity != 45.0 {
		t.Fatalf("unexpected readings: %+v", readings)
	}

	// Последнее показание
	w = doJSON(t, r, http.MethodGet, envPath+"/latest", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("latest reading: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Удаляем показание, повторное удаление — 404
	deletePath := fmt.Sprintf("/api/bedrooms/environment/%d", reading.ID)
	w = doJSON(t, r, http.MethodDelete, deletePath, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete reading: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodDelete, deletePath, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404, got %d", w.Code)
	}
}

func TestEnvironmentValidation(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bedrooms", gin.H{"name": "Bedroom 1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create bedroom: expected 201, got %d", w.Code)
	}
	var bedroom models.Bedroom
	if err := json.Unmarshal(w.Body.Bytes(), &bedroom); err != nil {
		t.Fatalf("decode bedroom: %v", err)
	}

	envPath := fmt.Sprintf("/api/bedrooms/%d/environment", bedroom.ID)

	// Отсутствующая влажность — 400, ничего не записано
	w = doJSON(t, r, http.MethodPost, envPath, gin.H{"temperature": 24.5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing humidity, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, envPath, nil)
	var readings []models.EnvironmentReading
	if err := json.Unmarshal(w.Body.Bytes(), &readings); err != nil {
		t.Fatalf("decode readings: %v", err)
	}
	if len(readings) != 0 {
		t.Fatalf("expected no readings after rejected insert, got %d", len(readings))
	}

	// Вставка для несуществующей спальни — 404, а не тихий NULL
	w = doJSON(t, r, http.MethodPost, "/api/bedrooms/999/environment", gin.H{"temperature": 24.5, "humidity": 45.0})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown bedroom, got %d", w.Code)
	}

	// Имя спальни обязательно
	w = doJSON(t, r, http.MethodPost, "/api/bedrooms", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}
}

func TestEnvironmentUpdateIsolation(t *testing.T) {
	r := setupTestRouter(t)

	var ids []uint
	for _, name := range []string{"Bedroom 1", "Bedroom 2"} {
		w := doJSON(t, r, http.MethodPost, "/api/bedrooms", gin.H{"name": name})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d", name, w.Code)
		}
		var bedroom models.Bedroom
		if err := json.Unmarshal(w.Body.Bytes(), &bedroom); err != nil {
			t.Fatalf("decode bedroom: %v", err)
		}
		ids = append(ids, bedroom.ID)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/bedrooms/%d/environment", ids[0]), gin.H{"temperature": 24.5, "humidity": 45.0})
	if w.Code != http.StatusCreated {
		t.Fatalf("insert reading: expected 201, got %d", w.Code)
	}
	var reading models.EnvironmentReading
	if err := json.Unmarshal(w.Body.Bytes(), &reading); err != nil {
		t.Fatalf("decode reading: %v", err)
	}

	// Обновление с чужим bedroom_id — 404
	wrongPath := fmt.Sprintf("/api/bedrooms/%d/environment/%d", ids[1], reading.ID)
	w = doJSON(t, r, http.MethodPut, wrongPath, gin.H{"temperature": 99.0, "humidity": 99.0})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for mismatched bedroom, got %d", w.Code)
	}

	// Правильная пара (recordId, bedroomId) — 200
	rightPath := fmt.Sprintf("/api/bedrooms/%d/environment/%d", ids[0], reading.ID)
	w = doJSON(t, r, http.MethodPut, rightPath, gin.H{"temperature": 26.0, "humidity": 48.0})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.EnvironmentReading
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Temperature != 26.0 || updated.Humidity != 48.0 {
		t.Fatalf("unexpected updated values: %+v", updated)
	}
}

func TestBedroomNotFoundResponses(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/bedrooms/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, "/api/bedrooms/42", gin.H{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("put: expected 404, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/bedrooms/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", w.Code)
	}
}

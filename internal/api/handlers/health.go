package handlers

import (
	"context"
	"net/http"
	"time"

	"flota-backend/internal/repository"
	"flota-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db          *mongo.Database
	redisClient *redis.Client
	vehicleRepo *repository.VehicleRepository
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

func NewHealthHandler(db *mongo.Database, redisClient *redis.Client, vehicleRepo *repository.VehicleRepository) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		vehicleRepo: vehicleRepo,
	}
}

// HealthCheck probes MongoDB and Redis. A Redis outage degrades caching but
// the API still serves, so it reports "degraded" rather than "unhealthy".
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Timestamp: time.Now(),
		Services:  make(map[string]interface{}),
	}

	mongoStatus := h.checkMongoDB()
	response.Services["mongodb"] = mongoStatus

	redisStatus := h.checkRedis()
	response.Services["redis"] = redisStatus

	switch {
	case !mongoStatus["healthy"].(bool):
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	case !redisStatus["healthy"].(bool):
		response.Status = "degraded"
		c.JSON(http.StatusOK, response)
	default:
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	}
}

func (h *HealthHandler) checkMongoDB() map[string]interface{} {
	status := map[string]interface{}{
		"service": "mongodb",
		"healthy": false,
	}

	if h.db == nil {
		status["error"] = "Database client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		status["error"] = err.Error()
		return status
	}

	status["healthy"] = true
	status["message"] = "Connected"

	if h.vehicleRepo != nil {
		if count, err := h.vehicleRepo.Count(); err == nil {
			status["vehicleCount"] = count
		}
	}

	return status
}

func (h *HealthHandler) checkRedis() map[string]interface{} {
	status := map[string]interface{}{
		"service": "redis",
		"healthy": false,
	}

	if h.redisClient == nil {
		status["error"] = "Redis client not initialized"
		return status
	}

	healthStatus := h.redisClient.HealthCheck()
	status["healthy"] = healthStatus.IsConnected
	status["connectionInfo"] = healthStatus.ConnectionInfo
	status["responseTime"] = healthStatus.ResponseTime.String()
	status["lastPing"] = healthStatus.LastPing

	if healthStatus.Error != "" {
		status["error"] = healthStatus.Error
	}

	status["connectionStats"] = h.redisClient.GetConnectionStats()
	return status
}

package handler

import "time"

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

type HealthHandler struct {
	environment string
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{
		environment,
	}
}

func (h *HealthHandler) Handle() HealthResponse {
	return HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Environment: h.environment,
	}
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// StorePinger is satisfied by *database.StateStore.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// BrokerPinger is satisfied by *queue.RabbitMQ.
type BrokerPinger interface {
	Ping() error
}

type HealthHandler struct {
	Store     StorePinger
	RabbitMQ  BrokerPinger
	Driver    string
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler accepts a nil broker when RabbitMQ is not configured.
func NewHealthHandler(store StorePinger, driver string, rabbitMQ BrokerPinger) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		RabbitMQ:  rabbitMQ,
		Driver:    driver,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check store
	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}
	if h.Driver != "" {
		deps["store_driver"] = h.Driver
	}

	// Check RabbitMQ
	if h.RabbitMQ != nil {
		if err := h.RabbitMQ.Ping(); err != nil {
			deps["rabbitmq"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for k, v := range deps {
		if k == "store_driver" {
			continue
		}
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

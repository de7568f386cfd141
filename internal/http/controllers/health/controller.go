// Package health contiene el controller de health check.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/holamaria/internal/http/helpers"
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
	"github.com/dropDatabas3/holamaria/internal/store/core"
)

// Status reporta el estado de un componente individual.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response es el cuerpo de GET /healthz.
type Response struct {
	Status     string            `json:"status"`
	Components map[string]Status `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Controller chequea el almacén de cuentas y el cache. El almacén es
// crítico: si falla, el servicio responde 503.
type Controller struct {
	Store      core.AccountStore
	CacheCheck func(ctx context.Context) error
}

func NewController(store core.AccountStore, cacheCheck func(ctx context.Context) error) *Controller {
	return &Controller{Store: store, CacheCheck: cacheCheck}
}

// Check maneja GET /healthz
func (c *Controller) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("health.Check"))

	resp := Response{
		Status:     "ok",
		Components: make(map[string]Status),
		Timestamp:  time.Now().UTC(),
	}
	code := http.StatusOK

	if err := c.Store.Ping(ctx); err != nil {
		resp.Components["store"] = Status{Status: "error", Message: err.Error()}
		resp.Status = "error"
		code = http.StatusServiceUnavailable
		log.Error("store unavailable", logger.Err(err))
	} else {
		resp.Components["store"] = Status{Status: "ok"}
	}

	if c.CacheCheck != nil {
		if err := c.CacheCheck(ctx); err != nil {
			resp.Components["cache"] = Status{Status: "error", Message: err.Error()}
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			resp.Components["cache"] = Status{Status: "ok"}
		}
	} else {
		resp.Components["cache"] = Status{Status: "disabled", Message: "in-memory mode"}
	}

	helpers.WriteJSON(w, code, resp)
}

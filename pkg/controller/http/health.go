package http

import (
	"net/http"

	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, &model.HealthStatus{
		Status:  "healthy",
		Service: types.ServiceName,
		Version: types.Version,
	})
}

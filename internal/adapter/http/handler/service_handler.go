package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/subledger/internal/adapter/http/dto"
	"github.com/iho/subledger/internal/usecase"
)

// ServiceHandler exposes provisioned services.
type ServiceHandler struct {
	services *usecase.ServiceUseCase
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(services *usecase.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// Get handles GET /api/v1/services/{id}.
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	service, err := h.services.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromService(service))
}

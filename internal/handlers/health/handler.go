package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concierge/transport/http/response"
)

type Handler struct{}

func New() Handler {
	return Handler{}
}

func (h *Handler) Router(r chi.Router) {
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health)
	})
}

// Health reports process liveness.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Router /v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.WithMessage(w, http.StatusOK, "ok")
}

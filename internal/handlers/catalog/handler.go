package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"concierge/infras/otel"
	"concierge/internal/domains/catalog/service"
	"concierge/shared/constant"
	"concierge/transport/http/response"
)

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/resources", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetResources)
	})
}

// GetResources lists the bookable resources of a kind.
// @Summary Get bookable resources
// @Description Retrieve the tables or rooms the booking desk can offer.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param kind query string false "Resource kind (table, room)"
// @Success 200 {object} response.Data[[]model.Resource] "List of resources"
// @Failure 502 {object} response.Error
// @Router /v1/resources [get]
func (handler *Handler) GetResources(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetResources")
	defer scope.End()

	kind := r.URL.Query().Get(constant.RequestParamKind)

	resources, err := handler.service.GetAll(ctx, kind)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resources")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, resources)
}

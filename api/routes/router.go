package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bitefinderz-backend/api/controllers"
	"github.com/angelmondragon/bitefinderz-backend/api/middleware"
	"github.com/angelmondragon/bitefinderz-backend/internal/menu"
	"github.com/angelmondragon/bitefinderz-backend/pkg/config"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	MenuBuilder   *menu.ViewBuilder
	MenuStreams   *menu.ServiceFactory
	CartStore     controllers.CartStore
	UsageRecorder controllers.UsageRecorder
	Pingers       map[string]controllers.Pinger
	Metrics       prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(deps.Config))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Pingers))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", controllers.Menu(deps.MenuBuilder, deps.Logger))
		r.Get("/menu/stream", controllers.MenuStream(deps.MenuStreams, deps.Logger))
		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartStore, deps.Logger))
			r.Put("/", controllers.CartReplace(deps.CartStore, deps.Logger))
		})
		r.Post("/usage/discounts", controllers.RecordDiscountUsage(deps.UsageRecorder, deps.Logger))
	})

	return r
}

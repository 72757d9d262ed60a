package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stocktag/stocktag/internal/barcodes"
	"github.com/stocktag/stocktag/internal/masterdata/categories"
	"github.com/stocktag/stocktag/internal/masterdata/currencies"
	"github.com/stocktag/stocktag/internal/masterdata/properties"
	"github.com/stocktag/stocktag/internal/masterdata/units"
	"github.com/stocktag/stocktag/internal/observability"
	"github.com/stocktag/stocktag/internal/products"
	"github.com/stocktag/stocktag/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	BarcodesHandler   *barcodes.Handler
	ProductsHandler   *products.Handler
	CurrenciesHandler *currencies.Handler
	UnitsHandler      *units.Handler
	CategoriesHandler *categories.Handler
	PropertiesHandler *properties.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/barcodes", params.BarcodesHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/currencies", params.CurrenciesHandler.MountRoutes)
	r.Route("/units", params.UnitsHandler.MountRoutes)
	r.Route("/categories", params.CategoriesHandler.MountRoutes)
	r.Route("/product-properties", params.PropertiesHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"print-order/app/controller"
	"print-order/app/middleware"
)

type Controllers struct {
	Session *controller.SessionController
	File    *controller.FileController
	Import  *controller.ImportController
	Config  *controller.ConfigController
	Order   *controller.OrderController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter builds the HTTP routes. Method mismatches get 405 from chi.
func NewRouter(controllers *Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	// Ping endpoint
	r.Get("/ping", pingHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Sessions routes
	r.Post("/sessions", controllers.Session.CreateSession)

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		// Files of the session
		r.Get("/files", controllers.File.ListFiles)
		r.Post("/files", controllers.File.UploadFiles)
		r.Post("/files/drive", controllers.Import.ImportFromDrive)
		r.Post("/collage", controllers.Import.CreateCollage)

		// Single file actions
		r.Delete("/files/{name}", controllers.File.DeleteFile)
		r.Post("/files/{name}/select", controllers.File.ToggleSelection)
		r.Get("/files/{name}/preview", controllers.File.PreviewFile)
		r.Post("/files/{name}/quote", controllers.Config.QuoteConfig)
		r.Put("/files/{name}/config", controllers.Config.SaveConfig)

		r.Get("/selection", controllers.File.GetSelection)
		r.Post("/checkout", controllers.Order.Checkout)
	})

	// Order summary from the flat encoded query
	r.Get("/order-summary", controllers.Order.GetOrderSummary)

	return r
}

package billingops

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the operator-facing billing API. Mount it behind
// whatever admin authentication the host application uses; the module
// itself performs no authorization.
//
//	r := chi.NewRouter()
//	r.Mount("/billing", billingops.Router(engine))
func Router(engine Engine, opts ...Option) chi.Router {
	h := newHandler(engine, opts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Post("/reconcile", h.reconcile)
		r.Post("/force-sync", h.forceSync)
		r.Post("/cleanup", h.cleanup)
		r.Delete("/cooldown", h.clearCooldown)
		r.Get("/access", h.access)
	})
	r.Post("/sweep", h.sweep)

	return r
}

// Option configures the module's handler.
type Option func(*handler)

// WithSweepConcurrency overrides the default worker count for sweeps
// started through the API.
func WithSweepConcurrency(n int) Option {
	return func(h *handler) {
		if n > 0 {
			h.sweepConcurrency = n
		}
	}
}

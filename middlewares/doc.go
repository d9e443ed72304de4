// Package middlewares provides net/http middleware for the admin API.
//
//	r := chi.NewRouter()
//	r.Use(
//	    middlewares.RequestID(),
//	    middlewares.Recover(log),
//	)
//	r.With(middlewares.BearerToken(cfg.AdminToken)).Route("/ses", admin.Routes)
//
// Pair [RequestIDExtractor] with the logger so every record emitted while
// handling a request carries its request_id.
package middlewares

// Package tmdb implements catalog.Client against the TMDB v3 REST API or any
// service exposing the same endpoints:
//
//	GET /discover/movie                      seed works
//	GET /discover/movie?with_people={id}     works by contributor (paginated)
//	GET /movie/{id}                          work details
//	GET /movie/{id}/credits                  cast of a work
//
// Requests carry the configured bearer token and share one rate limiter.
// Non-2xx responses fail with *catalog.StatusError; nothing is retried.
package tmdb

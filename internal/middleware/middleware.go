// Package middleware holds the echo middleware of the API: request ids,
// request scoped loggers, authentication (Supabase or Clerk), rate
// limiting, New Relic tracing, CORS and the global error handler.
package middleware

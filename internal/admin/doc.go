// Package admin exposes the SES dispatch controls as a JSON API.
//
// Routes, relative to where the handler is mounted:
//
//	GET    /ses            status report
//	POST   /ses/actions    {"action": "sendtestemail" | "enable" | "disable", "email": "..."}
//	PUT    /ses/settings   {"from": "...", "use_verified": true}
//	DELETE /ses/settings   restore defaults
//
// The acting admin is taken from the X-Admin-Email header. Authentication
// is left to middleware such as middlewares.BearerToken.
package admin

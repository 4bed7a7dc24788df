// Package api is the typed boundary to the websim REST API.
//
// Every response shape the client consumes is declared here as a Go type
// and validated on decode. A response that parses as JSON but lacks the
// expected envelope fails with ErrMalformedResponse; a non-2xx status fails
// with a *StatusError that matches ErrUnexpectedStatus. Callers treat both
// the same way: the one resource fails, nothing else does.
//
// Consumed endpoints:
//
//	GET  /api/v1/users/{username}/followers?count=true
//	GET  /api/v1/users/{username}/following?count=true
//	GET  /api/v1/users/{username}/followers?first=&after=
//	GET  /api/v1/users/{username}/following?first=&after=
//	GET  /api/v1/users/{username}/projects?posted=true&first=&after=
//	GET  /api/v1/projects/{id}/stats
//	POST /api/v1/projects/{id}/comments
package api

// Package api is the HTTP client for the artists backend.
//
// Resource wraps one REST collection (List, Get, Create, Update,
// Deactivate). Reads on some collections are public; mutations always send
// the bearer token from the configured TokenSource. Every non-2xx response
// and transport failure surfaces as *RequestError, whose Message is the
// server's "message" field when it sent one.
//
// The client sets no timeout; callers bound requests with their context.
package api

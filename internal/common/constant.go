// Package common contains shared constants and sentinel errors used across
// mediakeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName is the HTTP header echoing the per-request id.
const RequestIDHeaderName = "X-Request-ID"

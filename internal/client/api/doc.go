// Package api is a small HTTP client for the mediakeeper server.
//
// A Client keeps the bearer token obtained by Login and sends it with every
// later call. Non-2xx responses are mapped onto the sentinel errors of
// package common, so callers can match them with errors.Is.
package api

// Package client contains the transport-level building blocks of the
// console.
//
// # Overview
//
//  1. Client: the contract of the remote user API (auth, password reset,
//     user CRUD, paginated listing).
//  2. HTTPClient: the REST/JSON implementation. Authorized calls read the
//     bearer token from a TokenSource on every request, so the session stays
//     the single source of truth. Every request carries an X-Request-ID.
//  3. InitDatabase / RunMigrations: bootstrap of the local SQLite database
//     that holds the persisted session.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are *APIError,
// which also matches ErrUnauthorized (401), ErrNotFound (404) and
// ErrUnavailable (502/503/504) through errors.Is. MessageOf extracts the
// server message for user-facing notifications. Nothing is retried, and a
// 401 never tears the session down by itself.
package client

// Package client talks to the Magic Letters backend.
//
// # Overview
//
// Client is the transport-agnostic contract the sync service depends on:
// FetchAssigned pulls the letters assigned to a technician and UploadLetter
// pushes one completed letter as a multipart form. HTTPClient implements it
// over plain HTTP, validates the pull response against a JSON schema and,
// when configured with a secret, signs every request with a short-lived
// bearer token whose subject is the technician's phone.
//
// # Error Handling
//
// Failures are reported with sentinel errors matched by errors.Is:
// ErrUnavailable (network failure or timeout), ErrUnauthorized (401/403),
// ErrBadResponse (other non-2xx statuses, malformed or unexpected bodies, an
// {"error": ...} object) and ErrUploadRejected (the server answered but did
// not report success).
package client

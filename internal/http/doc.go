// Package http exposes the public guest entry form endpoints.
//
// Routes mount under a configurable base (default /!/guest-entries):
//   - POST {base}/create
//   - POST {base}/update
//   - POST {base}/delete
//
// Requests are plain urlencoded or multipart forms. Clients sending
// "Accept: application/json" get JSON bodies; everyone else is redirected to
// _redirect (on success) or _error_redirect (on validation failures), falling
// back to the Referer.
package http

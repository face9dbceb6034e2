// Package middleware holds the Fiber middleware shared by every feature.
//
//   - auth: rejects requests without the configured API key. An empty key
//     leaves the API open.
//   - rayid: tags each request with an id, reusing the caller's X-Ray-ID
//     when present, so log lines of one request can be correlated.
//
// Register rayid before anything that logs.
package middleware

// Package backend provides driven adapters over the dashboard
// backend's REST API: entity search and content for @mentions, board
// and query listings, server-side query testing and login.
//
// All adapters share one Client. Requests are rate limited with a
// token bucket and retried once after a 429; every other failure maps
// to a domain error or wraps the backend's own message.
package backend

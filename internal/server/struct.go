package server

import (
	"time"

	"github.com/woozymasta/seplayers/internal/game"
)

// Server holds the dependencies and immutable configuration required to handle HTTP requests.
type Server struct {
	// querier performs the outbound game server query for each request.
	querier game.Querier

	// target is the game server queried on every request. It is fixed at startup.
	target game.Target

	// corsOrigin is sent as Access-Control-Allow-Origin on every response.
	corsOrigin string

	// rateLimitWin is the time window duration for the per-IP rate limiter.
	rateLimitWin time.Duration

	// rateLimitCount is the maximum number of requests allowed per IP address
	// within rateLimitWin. Zero disables the limiter.
	rateLimitCount int

	// trustProxy indicates whether the server should trust headers like X-Forwarded-For
	// or CF-Connecting-IP when determining the client's real IP address.
	trustProxy bool
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

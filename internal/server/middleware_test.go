package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/seplayers/internal/game"
)

func TestCORSMiddleware(t *testing.T) {
	q := &fakeQuerier{state: &game.State{Players: players(`{"name":"Alice"}`)}}
	h := newTestHandler(q, testConfig())

	t.Run("simple request from any origin", func(t *testing.T) {
		rec := doGet(t, h, "/players", http.Header{"Origin": {"https://example.org"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("error responses carry CORS headers", func(t *testing.T) {
		failing := newTestHandler(&fakeQuerier{}, testConfig())
		rec := doGet(t, failing, "/players", http.Header{"Origin": {"https://example.org"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/players", nil)
		req.Header.Set("Origin", "https://example.org")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "X-Requested-With")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
		assert.Equal(t, "X-Requested-With", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("configured origin", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.CORSOrigin = "https://keen.example"
		rec := doGet(t, newTestHandler(q, cfg), "/players", nil)

		assert.Equal(t, "https://keen.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		q := &fakeQuerier{state: &game.State{Players: players()}}
		h := newTestHandler(q, testConfig())

		for i := 0; i < 50; i++ {
			rec := doGet(t, h, "/players", nil)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("rejects over limit per ip", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit.Count = 3
		cfg.RateLimit.Window = time.Hour

		q := &fakeQuerier{state: &game.State{Players: players()}}
		h := newTestHandler(q, cfg)

		for i := 0; i < 3; i++ {
			rec := doGet(t, h, "/players", nil)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		// players and status share one bucket
		rec := doGet(t, h, "/status", nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Too Many Requests"}`, rec.Body.String())
		assert.Len(t, q.targets, 3)

		req := httptest.NewRequest(http.MethodGet, "/players", nil)
		req.RemoteAddr = "198.51.100.7:4711"
		other := httptest.NewRecorder()
		h.ServeHTTP(other, req)
		assert.Equal(t, http.StatusOK, other.Code)

		rec = doGet(t, h, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "health is not rate limited")
	})
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		header     http.Header
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "203.0.113.5:5000", want: "203.0.113.5"},
		{name: "remote addr without port", remoteAddr: "203.0.113.5", want: "203.0.113.5"},
		{
			name:       "proxy headers ignored when untrusted",
			remoteAddr: "10.0.0.1:1234",
			header:     http.Header{"X-Forwarded-For": {"203.0.113.9"}},
			want:       "10.0.0.1",
		},
		{
			name:       "first forwarded address",
			remoteAddr: "10.0.0.1:1234",
			header:     http.Header{"X-Forwarded-For": {"203.0.113.9, 10.0.0.2"}},
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "cloudflare header wins",
			remoteAddr: "10.0.0.1:1234",
			header: http.Header{
				"Cf-Connecting-Ip": {"198.51.100.1"},
				"X-Forwarded-For":  {"203.0.113.9"},
			},
			trustProxy: true,
			want:       "198.51.100.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/players", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.header {
				req.Header[k] = v
			}

			assert.Equal(t, tt.want, GetRealIP(req, tt.trustProxy))
		})
	}
}

func TestEtagMatch(t *testing.T) {
	assert.False(t, etagMatch("", `W/"abc"`))
	assert.True(t, etagMatch(`W/"abc"`, `W/"abc"`))
	assert.True(t, etagMatch(`"abc"`, `W/"abc"`))
	assert.True(t, etagMatch(`"zzz", W/"abc"`, `W/"abc"`))
	assert.True(t, etagMatch(`*`, `W/"abc"`))
	assert.False(t, etagMatch(`W/"abd"`, `W/"abc"`))
}

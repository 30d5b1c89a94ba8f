package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

func allowedOrigins(extra []string) []string {
	origins := append([]string{}, devOrigins...)
	for _, o := range extra {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// OriginAllowed reports whether a websocket upgrade from origin is accepted.
// It uses the same list as CORS.
func OriginAllowed(extra []string) func(origin string) bool {
	set := make(map[string]struct{})
	for _, o := range allowedOrigins(extra) {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// CORS allows the local dev frontends plus any extra configured origins.
func CORS(extra []string) gin.HandlerFunc {
	origins := allowedOrigins(extra)
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Authorization", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	})
}

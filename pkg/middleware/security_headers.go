package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig holds the headers set on /api/v1 responses.
// Empty fields fall back to DefaultSecurityHeadersConfig.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	ReferrerPolicy        string
	PermissionsPolicy     string
	CacheControl          string
}

// DefaultSecurityHeadersConfig locks responses down for a JSON API that
// serves contact records. Nothing it returns is meant to be rendered or cached.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		ReferrerPolicy:        "no-referrer",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
		CacheControl:          "no-store",
	}
}

func (cfg SecurityHeadersConfig) headers() map[string]string {
	def := DefaultSecurityHeadersConfig()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return map[string]string{
		"Content-Security-Policy": pick(cfg.ContentSecurityPolicy, def.ContentSecurityPolicy),
		"Referrer-Policy":         pick(cfg.ReferrerPolicy, def.ReferrerPolicy),
		"Permissions-Policy":      pick(cfg.PermissionsPolicy, def.PermissionsPolicy),
		"Cache-Control":           pick(cfg.CacheControl, def.CacheControl),
	}
}

// SecurityHeaders sets the configured headers before calling the handler,
// so they are present on error responses too.
func SecurityHeaders(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	headers := cfg.headers()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range headers {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}

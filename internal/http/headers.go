package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	allowedHeaders = "X-Requested-With, Content-Type, Authorization, X-API-Key, X-Admin-Secret"
)

// Headers sets the CORS and referrer headers on every response and answers
// preflight requests. With forceHTTPS, absolute http:// redirects are
// rewritten to https://.
func Headers(forceHTTPS bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if forceHTTPS {
			c.Writer = &httpsLocationWriter{ResponseWriter: c.Writer}
		}
		c.Next()
	}
}

type httpsLocationWriter struct {
	gin.ResponseWriter
}

func (w *httpsLocationWriter) rewrite() {
	h := w.Header()
	if loc, ok := strings.CutPrefix(h.Get("Location"), "http://"); ok {
		h.Set("Location", "https://"+loc)
	}
}

func (w *httpsLocationWriter) WriteHeader(code int) {
	w.rewrite()
	w.ResponseWriter.WriteHeader(code)
}

func (w *httpsLocationWriter) WriteHeaderNow() {
	w.rewrite()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *httpsLocationWriter) Write(b []byte) (int, error) {
	w.rewrite()
	return w.ResponseWriter.Write(b)
}

func (w *httpsLocationWriter) WriteString(s string) (int, error) {
	w.rewrite()
	return w.ResponseWriter.WriteString(s)
}

package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFallback serves the front-end bundle in dir for any path the router
// did not match, falling back to index.html for client side routes. Paths
// under apiPrefix always get a JSON 404.
func StaticFallback(dir, apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if dir == "" || isAPIPath(p, apiPrefix) ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.File(index)
	}
}

func isAPIPath(p, apiPrefix string) bool {
	if apiPrefix == "" || apiPrefix == "/" {
		return false
	}
	return p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/")
}

package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
)

// AppWebHandler serves the built single-page app. Unknown paths get
// index.html so client-side routes survive a reload.
type AppWebHandler struct {
	dir string
}

func NewAppWebHandler(dir string) *AppWebHandler {
	return &AppWebHandler{dir: dir}
}

func (h *AppWebHandler) Page(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		httperr.NotFound(c, "not_found", "Not found")
		return
	}

	rel := path.Clean("/" + c.Request.URL.Path)
	if rel != "/" {
		full := filepath.Join(h.dir, filepath.FromSlash(rel))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		httperr.NotFound(c, "page_not_found", "Page not found")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(index)
}

package handlers

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	backend string
	audit   bool
	dial    func(network, addr string, timeout time.Duration) (net.Conn, error)
}

func NewHealthHandler(backendURL string, auditEnabled bool) *HealthHandler {
	return &HealthHandler{
		backend: backendURL,
		audit:   auditEnabled,
		dial:    net.DialTimeout,
	}
}

// Get always answers 200 while the gateway runs; backend reachability is
// reported, not enforced.
func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.backendState(),
		"audit":   h.audit,
	})
}

func (h *HealthHandler) backendState() string {
	u, err := url.Parse(h.backend)
	if err != nil {
		return "invalid"
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host = net.JoinHostPort(u.Hostname(), "443")
		} else {
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	conn, err := h.dial("tcp", host, time.Second)
	if err != nil {
		return "down"
	}
	conn.Close()
	return "up"
}

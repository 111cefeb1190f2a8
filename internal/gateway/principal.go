package gateway

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "gateway.principal"

// Principal is what the credential claims about its holder. The signature is
// never checked here, so it is only fit for logs and the audit trail; the
// backend makes every authorization decision.
type Principal struct {
	Subject string
	Roles   []string
}

func (p Principal) Role() string {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0]
}

// ExtractPrincipal reads sub and roles from a bearer token without verifying it.
func ExtractPrincipal(authorization string) (Principal, bool) {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Principal{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(parts[1]), claims); err != nil {
		return Principal{}, false
	}

	sub, _ := claims.GetSubject()
	p := Principal{Subject: sub, Roles: roles(claims["roles"])}
	if len(p.Roles) == 0 {
		p.Roles = roles(claims["role"])
	}
	return p, sub != "" || len(p.Roles) > 0
}

// roles accepts "ROLE_DOCTOR,ROLE_ADMIN" as well as a JSON array.
func roles(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []any:
		for _, r := range t {
			if s, ok := r.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	var out []string
	for _, r := range raw {
		r = strings.TrimPrefix(strings.TrimSpace(r), "ROLE_")
		if r != "" {
			out = append(out, strings.ToUpper(r))
		}
	}
	return out
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

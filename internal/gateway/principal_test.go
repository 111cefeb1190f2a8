package gateway

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedless builds a token with a junk signature; only the claims matter.
func signedless(t *testing.T, claims string) string {
	t.Helper()
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(claims)) + "." +
		enc.EncodeToString([]byte("not-a-signature"))
}

func TestExtractPrincipal(t *testing.T) {
	p, ok := ExtractPrincipal("Bearer " + signedless(t, `{"sub":"ana@example.com","roles":"ROLE_PATIENT"}`))
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", p.Subject)
	assert.Equal(t, []string{"PATIENT"}, p.Roles)
	assert.Equal(t, "PATIENT", p.Role())

	p, ok = ExtractPrincipal("bearer " + signedless(t, `{"sub":"7","roles":["ROLE_ADMIN","doctor"]}`))
	require.True(t, ok)
	assert.Equal(t, []string{"ADMIN", "DOCTOR"}, p.Roles)

	p, ok = ExtractPrincipal("Bearer " + signedless(t, `{"sub":"7","role":"DOCTOR"}`))
	require.True(t, ok)
	assert.Equal(t, "DOCTOR", p.Role())
}

func TestExtractPrincipalSignedToken(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "house@example.com",
		"roles": "ROLE_DOCTOR",
	}).SignedString([]byte("someone-elses-secret"))
	require.NoError(t, err)

	p, ok := ExtractPrincipal("Bearer " + tok)
	require.True(t, ok)
	assert.Equal(t, "house@example.com", p.Subject)
}

func TestExtractPrincipalRejectsGarbage(t *testing.T) {
	for _, h := range []string{"", "Bearer", "Basic dXNlcjpwYXNz", "Bearer not.a.jwt", "Bearer " + signedless(t, `{}`)} {
		_, ok := ExtractPrincipal(h)
		assert.False(t, ok, h)
	}
}

func TestPaths(t *testing.T) {
	assert.True(t, Protected("/doctor/appointments"))
	assert.True(t, Protected("/auth/login"))
	assert.False(t, Protected("/doctors"))
	assert.False(t, Protected("/assets/app.js"))

	assert.True(t, IsPublic("/auth/login"))
	assert.True(t, IsPublic("/auth/login?next=%2Fdashboard"))
	assert.True(t, IsPublic("/auth/signup-patient"))
	assert.False(t, IsPublic("/auth/login/extra"))
	assert.False(t, IsPublic("/auth/loginx"))
	assert.False(t, IsPublic("/auth/me"))

	assert.True(t, WantsHTML("text/html,application/xhtml+xml,*/*;q=0.8"))
	assert.False(t, WantsHTML("application/json"))
}

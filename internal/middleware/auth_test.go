package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/matryer/is"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase"
)

const secret = "test-secret"

type revocations struct {
	revoked map[string]bool
	err     error
}

func (r revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.revoked[id], r.err
}

func sign(t *testing.T, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func validClaims() Claims {
	return Claims{
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "jti-1",
			Issuer:    "auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// serve runs the middleware and returns the caller seen by the next handler.
func serve(cfg AuthConfig, prepare func(*fasthttp.RequestCtx)) (*fasthttp.RequestCtx, *usecase.Caller) {
	var seen *usecase.Caller
	h := JWTAuth(cfg, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.CallerOf(ctx)
		ctx.SetStatusCode(fasthttp.StatusOK)
	})
	var rc fasthttp.RequestCtx
	prepare(&rc)
	h(&rc)
	return &rc, seen
}

func bearer(token string) func(*fasthttp.RequestCtx) {
	return func(rc *fasthttp.RequestCtx) {
		rc.Request.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestJWTAuth_Valid(t *testing.T) {
	is := is.New(t)
	cfg := AuthConfig{Secret: secret, Issuer: "auth.example.com"}
	rc, caller := serve(cfg, bearer(sign(t, jwt.SigningMethodHS256, validClaims())))

	is.Equal(rc.Response.StatusCode(), fasthttp.StatusOK)
	is.True(caller != nil)
	is.Equal(caller.UserID, "user-1")
	is.Equal(caller.Email, "ana@example.com")
	is.Equal(caller.SessionID, "jti-1")
	is.True(!caller.ExpiresAt.IsZero())
	is.Equal(string(rc.Request.Header.Peek("X-User-ID")), "user-1")
}

func TestJWTAuth_CookieToken(t *testing.T) {
	is := is.New(t)
	token := sign(t, jwt.SigningMethodHS256, validClaims())
	rc, caller := serve(AuthConfig{Secret: secret}, func(rc *fasthttp.RequestCtx) {
		rc.Request.Header.SetCookie(TokenCookie, token)
	})
	is.Equal(rc.Response.StatusCode(), fasthttp.StatusOK)
	is.Equal(caller.UserID, "user-1")
}

func TestJWTAuth_Rejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	anonymous := validClaims()
	anonymous.Subject = ""
	foreign := validClaims()
	foreign.Issuer = "elsewhere"

	cases := []struct {
		name    string
		cfg     AuthConfig
		prepare func(*fasthttp.RequestCtx)
	}{
		{"missing token", AuthConfig{Secret: secret}, func(*fasthttp.RequestCtx) {}},
		{"garbage", AuthConfig{Secret: secret}, bearer("not.a.jwt")},
		{"wrong secret", AuthConfig{Secret: "other"}, bearer(sign(t, jwt.SigningMethodHS256, validClaims()))},
		{"wrong algorithm", AuthConfig{Secret: secret}, bearer(sign(t, jwt.SigningMethodHS512, validClaims()))},
		{"expired", AuthConfig{Secret: secret}, bearer(sign(t, jwt.SigningMethodHS256, expired))},
		{"no subject", AuthConfig{Secret: secret}, bearer(sign(t, jwt.SigningMethodHS256, anonymous))},
		{"issuer mismatch", AuthConfig{Secret: secret, Issuer: "auth.example.com"}, bearer(sign(t, jwt.SigningMethodHS256, foreign))},
		{
			"revoked",
			AuthConfig{Secret: secret, Revocations: revocations{revoked: map[string]bool{"jti-1": true}}},
			bearer(sign(t, jwt.SigningMethodHS256, validClaims())),
		},
		{
			"revocation store down",
			AuthConfig{Secret: secret, Revocations: revocations{err: errors.New("dial tcp: refused")}},
			bearer(sign(t, jwt.SigningMethodHS256, validClaims())),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			rc, caller := serve(tc.cfg, tc.prepare)
			is.Equal(rc.Response.StatusCode(), fasthttp.StatusUnauthorized)
			is.True(caller == nil)
			is.Equal(string(rc.Response.Body()), `{"success":false,"error":"Not authenticated","code":"UNAUTHORIZED"}`)
		})
	}
}

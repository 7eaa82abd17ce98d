package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase"
)

// TokenCookie is the default cookie consulted when no Authorization header is sent.
const TokenCookie = "access_token"

// Claims are the fields read from a provider-issued access token.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// RevocationChecker reports signed-out token ids.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// AuthConfig configures JWTAuth.
type AuthConfig struct {
	Secret string
	// Issuer is checked when set.
	Issuer      string
	Revocations RevocationChecker
	// Cookie defaults to TokenCookie.
	Cookie string
	// CheckTimeout bounds the revocation lookup.
	CheckTimeout time.Duration
}

var errMissingSubject = errors.New("token has no subject")

func JWTAuth(cfg AuthConfig, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 2 * time.Second
	}
	if cfg.Cookie == "" {
		cfg.Cookie = TokenCookie
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx, cfg.Cookie)
			if tokenString == "" {
				unauthorized(ctx)
				return
			}

			claims, err := parseToken(tokenString, cfg)
			if err != nil {
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx)
				return
			}

			if cfg.Revocations != nil && claims.ID != "" {
				checkCtx, cancel := context.WithTimeout(context.Background(), cfg.CheckTimeout)
				revoked, err := cfg.Revocations.IsRevoked(checkCtx, claims.ID)
				cancel()
				if err != nil {
					logger.Error("revocation check failed", zap.Error(err))
					unauthorized(ctx)
					return
				}
				if revoked {
					unauthorized(ctx)
					return
				}
			}

			caller := &usecase.Caller{
				UserID:    claims.Subject,
				Email:     claims.Email,
				SessionID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				caller.ExpiresAt = claims.ExpiresAt.Time
			}
			httpcontext.SetCaller(ctx, caller)
			ctx.Request.Header.Set("X-User-ID", claims.Subject)

			next(ctx)
		}
	}
}

func parseToken(tokenString string, cfg AuthConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

func extractToken(ctx *fasthttp.RequestCtx, cookie string) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return string(ctx.Request.Header.Cookie(cookie))
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	body, _ := json.Marshal(transport.FromError(domain.ErrUnauthenticated, ""))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBody(body)
}

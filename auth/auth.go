// Package auth verifies platform-signed callback tokens guarding the admin
// surface. The upstream platform signs admin callbacks with an HS256 JWT
// using the app's client secret; nothing here issues tokens.
package auth

import (
	"context"
	"fmt"
	"net/http"

	resp "github.com/smileworthy/benefix/response"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

// ContextKey is a defined type to be used in context.Context containing the Claims
type ContextKey string

// Context is the key used in context.Context containing the Claims
const Context ContextKey = "authContext"

// Environment is the type for defining the running environment
type Environment string

// define constants
const (
	EnvDevelopment Environment = "Dev"
	EnvProduction  Environment = "Prod"
)

var bearerPrefix = "Bearer "
var jwtSigningMethod = jwt.SigningMethodHS256

// Claims is the struct the platform embeds in its signed callback token
type Claims struct {
	jwt.StandardClaims
	StoreHash string `json:"store_hash"`
	UserEmail string `json:"user_email"`
}

// Options provides initialization parameters for Auth
type Options struct {
	Logger *zap.Logger

	// ClientSecret is the app's OAuth client secret, shared with the
	// platform as the HS256 signing key
	ClientSecret string

	// StoreHash restricts accepted tokens to callbacks for this store
	StoreHash string

	Environment Environment
}

// Auth verifies signed platform callbacks
type Auth struct {
	Options
}

// New validates the Options and returns an Auth for middleware use
func New(option Options) (*Auth, error) {
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	if len(option.ClientSecret) < 16 {
		return nil, fmt.Errorf("client secret must be longer than 16 characters")
	}
	if len(option.StoreHash) == 0 {
		return nil, fmt.Errorf("empty StoreHash is invalid")
	}
	if option.Environment == "" {
		option.Environment = EnvDevelopment
	}
	return &Auth{
		Options: option,
	}, nil
}

func (a *Auth) verifyToken(token string) (*Claims, error) {
	claims := &Claims{}
	jwtToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.ClientSecret), nil
	})
	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, nil
		}
		if _, ok := err.(*jwt.ValidationError); ok {
			return nil, nil
		}
		return nil, err
	}
	if jwtToken.Method != jwtSigningMethod {
		return nil, nil
	}
	if !jwtToken.Valid {
		return nil, nil
	}
	if claims.StoreHash != a.StoreHash {
		return nil, nil
	}
	return claims, nil
}

// Middleware returns a http middleware to verify the Bearer token in the header
func (a *Auth) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			n := len(bearerPrefix)
			if len(auth) < n || auth[:n] != bearerPrefix {
				resp.WriteError(w, r, resp.ErrNoBearer())
				return
			}
			claims, err := a.verifyToken(auth[n:])
			if err != nil {
				a.Logger.Error("Unable to verify callback token",
					zap.Error(err),
				)
				resp.WriteError(w, r, resp.ErrVerifyToken())
				return
			}
			if claims == nil {
				resp.WriteError(w, r, resp.ErrUnauthorized())
				return
			}
			ctx := context.WithValue(r.Context(), Context, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidTokenType = errors.New("unexpected token type")

type Service interface {
	// GenerateAccessToken issues a bearer token for caller. Production tokens
	// come from the identity provider; this is used by tooling and tests.
	GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error)

	// GenerateSSEToken issues a short-lived token that may travel in a query
	// string, since EventSource cannot set headers.
	GenerateSSEToken(caller user.Caller) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Caller, error)

	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenExpirationTime: exp,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	claims := callerClaims(caller, TokenTypeAccess)
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateSSEToken(caller user.Caller) (token string, expiresIn int, err error) {
	claims := callerClaims(caller, TokenTypeSSE)
	claims["exp"] = j.now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken verifies signature, expiry and type, and returns the
// caller the token was issued for.
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Caller, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Caller{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Caller{}, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return user.Caller{}, ErrInvalidTokenType
	}

	caller := user.Caller{}
	caller.UserID, _ = claims["user_id"].(string)
	caller.EmployeeID, _ = claims["employee_id"].(string)
	caller.CompanyID, _ = claims["company_id"].(string)
	if role, ok := claims["role"].(string); ok {
		caller.Role = user.Role(role)
	}

	if caller.CompanyID == "" {
		return user.Caller{}, user.ErrCompanyIDRequired
	}

	return caller, nil
}

func callerClaims(caller user.Caller, tokenType string) map[string]interface{} {
	claims := map[string]interface{}{
		"user_id":    caller.UserID,
		"company_id": caller.CompanyID,
		"role":       string(caller.Role),
		"type":       tokenType,
	}
	if caller.EmployeeID != "" {
		claims["employee_id"] = caller.EmployeeID
	}
	return claims
}

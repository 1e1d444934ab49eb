package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/deskward/deskward/internal/tenancy"
)

// DefaultAccessTokenTTL applies when no TTL is configured.
const DefaultAccessTokenTTL = 15 * time.Minute

var (
	// ErrTokenExpired marks a well-formed, correctly signed token past its expiry.
	ErrTokenExpired  = errors.New("jwt: token expired")
	ErrInvalidIssuer = errors.New("jwt: invalid issuer")
	errMissingClaim  = errors.New("jwt: missing claim")
)

type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
	// Leeway tolerates clock skew between the issuing and validating hosts.
	Leeway time.Duration
	Clock  func() time.Time
}

// Claims carries the principal identity. Organization and role are signed into the token so
// every request is scoped without trusting client input.
type Claims struct {
	UserID         string `json:"uid"`
	OrganizationID string `json:"org"`
	ClientID       string `json:"cid,omitempty"`
	Role           string `json:"role"`
	Email          string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the request principal.
func (c *Claims) Principal() tenancy.Principal {
	return tenancy.Principal{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		ClientID:       c.ClientID,
		Role:           c.Role,
		Email:          c.Email,
	}
}

// AccessTokenInput holds the parameters used when generating a new access token.
type AccessTokenInput struct {
	UserID         string
	OrganizationID string
	ClientID       string
	Role           string
	Email          string
	Audience       []string
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	svc := &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
		now:    cfg.Clock,
	}
	if svc.ttl <= 0 {
		svc.ttl = DefaultAccessTokenTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(svc.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if svc.issuer != "" {
		options = append(options, jwt.WithIssuer(svc.issuer))
	}
	svc.parser = jwt.NewParser(options...)

	return svc, nil
}

// TTL reports the lifetime of issued access tokens.
func (s *JWTService) TTL() time.Duration { return s.ttl }

// SecretLength returns the signing secret length in bytes.
func (s *JWTService) SecretLength() int { return len(s.secret) }

// GenerateAccessToken issues a signed JWT containing the supplied claims.
func (s *JWTService) GenerateAccessToken(input AccessTokenInput) (string, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return "", errors.New("jwt: user id is required")
	}
	if strings.TrimSpace(input.OrganizationID) == "" {
		return "", errors.New("jwt: organization id is required")
	}

	now := s.now()
	claims := &Claims{
		UserID:         input.UserID,
		OrganizationID: input.OrganizationID,
		ClientID:       input.ClientID,
		Role:           input.Role,
		Email:          input.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   input.UserID,
			Issuer:    s.issuer,
			Audience:  input.Audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken verifies signature, algorithm, time claims and issuer, then requires
// the user and organization claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("jwt: token string is empty")
	}

	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	case err != nil:
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	case claims.UserID == "":
		return nil, fmt.Errorf("%w: uid", errMissingClaim)
	case claims.OrganizationID == "":
		return nil, fmt.Errorf("%w: org", errMissingClaim)
	}
	return &claims, nil
}

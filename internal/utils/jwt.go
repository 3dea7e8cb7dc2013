package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel errors distinguishing verification failures
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // uuid generates the unique jti claim
)

// Token type values carried in the "type" claim.  Access tokens authorize
// API requests; refresh tokens may only be exchanged for new access tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Verification failures.  ErrTokenExpired covers a structurally valid token
// past its exp claim; ErrTokenInvalid covers bad signatures, malformed
// strings and unexpected claim shapes.  Revocation is checked separately by
// the blocklist, since it is state rather than a property of the token.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// SignedToken represents a freshly minted JWT along with the metadata the
// caller needs without re-parsing it.  The Token field contains the
// serialized JWT string.  JTI is the unique identifier used as the
// revocation key.  Exp stores the expiration timestamp as a time.Time.
type SignedToken struct {
	Token string    // the serialized JWT string
	JTI   string    // unique token identifier (revocation key)
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the decoded, validated view of a token's claims.
type TokenClaims struct {
	UserID uint64    // subject (sub) claim
	JTI    string    // unique token identifier (jti)
	Fresh  bool      // true only for tokens minted directly by a password login
	Type   string    // "access" or "refresh"
	Exp    time.Time // expiration time, used to bound blocklist TTLs
}

// NewAccessToken builds and signs an HS256 JWT access token for a user.  It
// takes the signing secret, the user ID, whether the token is fresh, and a
// TTL in minutes.  The JWT includes the claims: subject (sub), unique
// identifier (jti), freshness flag (fresh), token type (type), expiration
// (exp) and issued at (iat).  A token minted through the refresh flow must
// pass fresh=false; freshness is only ever granted by a password login.
func NewAccessToken(secret string, userID uint64, fresh bool, ttlMin int) (SignedToken, error) {
	return newToken(secret, userID, TokenTypeAccess, fresh, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds and signs an HS256 JWT refresh token.  Refresh
// tokens live longer than access tokens, carry type=refresh, and are never
// fresh.  Each one is single-use: the authority revokes its jti as soon as
// it is exchanged for a new access token.
func NewRefreshToken(secret string, userID uint64, ttlMin int) (SignedToken, error) {
	return newToken(secret, userID, TokenTypeRefresh, false, time.Duration(ttlMin)*time.Minute)
}

// newToken signs a JWT with the shared claim layout.
func newToken(secret string, userID uint64, typ string, fresh bool, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":   userID,
		"jti":   jti,
		"fresh": fresh,
		"type":  typ,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of a serialized JWT and
// decodes its claims.  It returns ErrTokenExpired when the token is past
// its exp claim and ErrTokenInvalid for every other defect (wrong signing
// method, bad signature, missing or malformed claims).  Revocation is not
// checked here; callers consult the blocklist with the returned JTI.
func ParseToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; an attacker must not
		// be able to downgrade the signing method.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrTokenInvalid
	}

	var c TokenClaims
	// JWT numeric values decode as float64.
	sub, ok := mc["sub"].(float64)
	if !ok {
		return TokenClaims{}, ErrTokenInvalid
	}
	c.UserID = uint64(sub)
	if c.JTI, ok = mc["jti"].(string); !ok || c.JTI == "" {
		return TokenClaims{}, ErrTokenInvalid
	}
	if c.Type, ok = mc["type"].(string); !ok {
		return TokenClaims{}, ErrTokenInvalid
	}
	c.Fresh, _ = mc["fresh"].(bool)
	if expVal, ok := mc["exp"].(float64); ok {
		c.Exp = time.Unix(int64(expVal), 0).UTC()
	}
	return c, nil
}

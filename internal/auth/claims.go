package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrTokenExpired = errors.New("access token expired")
)

// Claims is the subset of the backend's access token the gateway reads.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Parser decodes access tokens issued by the backend. Signatures are not
// verified here: the backend checks them on every forwarded call.
type Parser struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewParser() *Parser {
	return &Parser{parser: jwt.NewParser(), now: time.Now}
}

func (p *Parser) Parse(token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	mc := jwt.MapClaims{}
	if _, _, err := p.parser.ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := Claims{
		UserID:   int64Claim(mc, "user_id"),
		Username: stringClaim(mc, "username"),
		Role:     stringClaim(mc, "role"),
	}
	if claims.Role == "" {
		claims.Role = stringClaim(mc, "rol")
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
		if !p.now().Before(exp.Time) {
			return claims, ErrTokenExpired
		}
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	switch v := mc[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func int64Claim(mc jwt.MapClaims, key string) int64 {
	switch v := mc[key].(type) {
	case float64:
		return int64(v)
	case string:
		id, _ := strconv.ParseInt(v, 10, 64)
		return id
	default:
		return 0
	}
}

package gate

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cookieClaims carries only the session id; everything else lives in the
// session store.
type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs and verifies the session cookie.
type CookieCodec struct {
	name   string
	secret []byte
}

// NewCookieCodec constructs a cookie codec.
func NewCookieCodec(name string, secret []byte) (*CookieCodec, error) {
	if name == "" {
		return nil, errors.New("gate: empty cookie name")
	}
	if len(secret) == 0 {
		return nil, errors.New("gate: empty cookie secret")
	}
	return &CookieCodec{name: name, secret: secret}, nil
}

// Issue writes a signed session cookie on the response.
func (c *CookieCodec) Issue(w http.ResponseWriter, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return errors.New("gate: empty session id")
	}
	claims := cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear drops the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID extracts and verifies the session id from the request cookie.
func (c *CookieCodec) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return "", err
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &cookieClaims{}
	token, err := parser.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("gate: invalid signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", errors.New("gate: invalid session cookie")
	}
	return claims.SessionID, nil
}

package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultNamespace prefixes the custom role and email claims issued by the
// identity provider.
const DefaultNamespace = "https://ci.com.au"

// Claims is the subset of the bearer token this client reads.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

// DecodeError reports a token that could not be decoded. Session never
// surfaces it; it is exported for callers that decode tokens directly.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode token: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeClaims reads the token payload without verifying its signature.
// Verification is the API's job.
func DecodeClaims(token, namespace string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &DecodeError{Err: errors.New("empty token")}
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	c := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if email, ok := mc[namespace+"/email"].(string); ok {
		c.Email = email
	}

	switch raw := mc[namespace+"/roles"].(type) {
	case nil:
	case []any:
		for _, r := range raw {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	default:
		return nil, &DecodeError{Err: fmt.Errorf("roles claim has type %T", raw)}
	}

	return c, nil
}

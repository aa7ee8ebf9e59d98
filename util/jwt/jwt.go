package jwt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Masudcse27/bs-library-management-system/model"
)

// Issue signs an HS256 token for actor. Tokens normally come from the identity
// provider; this is for local development and tests.
func Issue(secret string, actor model.Actor, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  actor.UserID,
		"role": actor.Role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ActorFromClaims reads the caller from verified claims. A missing role means
// a regular user.
func ActorFromClaims(mc jwt.MapClaims) (model.Actor, error) {
	var a model.Actor

	switch sub := mc["sub"].(type) {
	case float64:
		if sub != math.Trunc(sub) || sub >= math.MaxInt64 {
			return a, fmt.Errorf("sub claim %v is not a user id", sub)
		}
		a.UserID = int64(sub)
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return a, fmt.Errorf("sub claim %q is not a user id", sub)
		}
		a.UserID = id
	default:
		return a, errors.New("sub missing in claims")
	}
	if a.UserID <= 0 {
		return a, errors.New("sub must be a positive user id")
	}

	a.Role = model.RoleUser
	if role, ok := mc["role"].(string); ok && role == model.RoleAdmin {
		a.Role = model.RoleAdmin
	}
	return a, nil
}

package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/model"
	jwtutil "github.com/Masudcse27/bs-library-management-system/util/jwt"
)

const actorKey = "actor"

// ActorFromToken reads the verified token that echo-jwt stored under "user".
func ActorFromToken(c echo.Context) (model.Actor, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return model.Actor{}, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Actor{}, errors.New("invalid jwt claims")
	}
	return jwtutil.ActorFromClaims(claims)
}

func SetActor(c echo.Context, a model.Actor) { c.Set(actorKey, a) }

// Actor returns the caller resolved by the auth middleware.
func Actor(c echo.Context) model.Actor {
	a, _ := c.Get(actorKey).(model.Actor)
	return a
}

package service

import (
	"errors"
	"fmt"

	"github.com/njprem/ShipRequest_BackEnd/internal/repository/ports"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrEmailAlreadyUsed   = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrShipmentNotFound   = errors.New("shipping request not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}

func conflictField(err error) (string, bool) {
	var conflict *ports.ConflictError
	if errors.As(err, &conflict) {
		return conflict.Field, true
	}
	return "", errors.Is(err, ports.ErrConflict)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

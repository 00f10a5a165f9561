package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrProfileUnavailable = errors.New("company profile unavailable")
	ErrConfigUnavailable  = errors.New("configuration unavailable")
)

// ValidationError reúne los problemas de un conjunto de puntajes rechazado.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scores: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

package game

import (
	"errors"
	"fmt"
	"strings"

	"cryptofarm/internal/domain"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientWorkers = errors.New("insufficient workers")
	ErrGridFull            = errors.New("no free grid slot")
	ErrMaxLevelReached     = errors.New("max level reached")
	ErrRequirementsNotMet  = errors.New("rebirth requirements not met")
	ErrCorruptSnapshot     = errors.New("corrupt snapshot")
	ErrStaleSnapshot       = errors.New("snapshot version is outdated")
	ErrUnknownItem         = errors.New("unknown item")
	ErrNotFound            = errors.New("not found")
	ErrLocked              = errors.New("locked")
	ErrInvalidPosition     = errors.New("invalid position")
)

// FundsError reports how much cash an action needed.
type FundsError struct {
	Need int64
	Have int64
}

func (e *FundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Need, e.Have)
}

func (e *FundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// Shortfall is the missing amount.
func (e *FundsError) Shortfall() int64 { return e.Need - e.Have }

// WorkerShortageError names the role and count a computer purchase needs.
type WorkerShortageError struct {
	Role     domain.WorkerRole
	Required int
	Have     int
}

func (e *WorkerShortageError) Error() string {
	return fmt.Sprintf("insufficient workers: need %d %s(s), have %d", e.Required, e.Role, e.Have)
}

func (e *WorkerShortageError) Is(target error) bool { return target == ErrInsufficientWorkers }

// RequirementsError aggregates every unmet rebirth requirement.
type RequirementsError struct {
	Unmet []Requirement
}

func (e *RequirementsError) Error() string {
	parts := make([]string, 0, len(e.Unmet))
	for _, r := range e.Unmet {
		parts = append(parts, fmt.Sprintf("%s (%d/%d)", r.Description, r.Have, r.Need))
	}
	return "rebirth requirements not met: " + strings.Join(parts, "; ")
}

func (e *RequirementsError) Is(target error) bool { return target == ErrRequirementsNotMet }

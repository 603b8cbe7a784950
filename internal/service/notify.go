package service

import (
	"errors"
	"fmt"
	"strings"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
)

// NotificationFor turns an engine error into a player-facing toast.
func NotificationFor(err error) domain.Notification {
	var (
		funds   *game.FundsError
		workers *game.WorkerShortageError
		rebirth *game.RequirementsError
	)
	switch {
	case errors.As(err, &funds):
		return warn("Not enough cash", fmt.Sprintf("You need %d more cash.", funds.Shortfall()))
	case errors.As(err, &workers):
		return warn("Not enough workers", fmt.Sprintf("Hire %d more %s(s) to run another computer.", workers.Required-workers.Have, workers.Role))
	case errors.As(err, &rebirth):
		parts := make([]string, 0, len(rebirth.Unmet))
		for _, r := range rebirth.Unmet {
			parts = append(parts, fmt.Sprintf("%s (%d/%d)", r.Description, r.Have, r.Need))
		}
		return warn("Rebirth locked", strings.Join(parts, ", "))
	case errors.Is(err, game.ErrInsufficientFunds):
		return warn("Not enough cash", "You cannot afford this yet.")
	case errors.Is(err, game.ErrGridFull):
		return warn("Room is full", "Expand the room to place more computers.")
	case errors.Is(err, game.ErrMaxLevelReached):
		return info("Maxed out", "This upgrade is already at its maximum level.")
	case errors.Is(err, game.ErrLocked):
		return warn("Locked", "Rebirth to unlock this.")
	case errors.Is(err, game.ErrInvalidPosition):
		return warn("Can't place there", "That spot is taken or outside the room.")
	case errors.Is(err, game.ErrUnknownItem), errors.Is(err, game.ErrNotFound):
		return errorToast("Not found", "That item does not exist.")
	}
	return errorToast("Something went wrong", "Please try again.")
}

func success(title, message string) domain.Notification {
	return domain.Notification{Title: title, Message: message, Severity: domain.SeveritySuccess}
}

func info(title, message string) domain.Notification {
	return domain.Notification{Title: title, Message: message, Severity: domain.SeverityInfo}
}

func warn(title, message string) domain.Notification {
	return domain.Notification{Title: title, Message: message, Severity: domain.SeverityWarning}
}

func errorToast(title, message string) domain.Notification {
	return domain.Notification{Title: title, Message: message, Severity: domain.SeverityError}
}

// WelcomeBack is the toast shown after offline earnings were credited.
func WelcomeBack(r game.OfflineReport) domain.Notification {
	away := r.SecondsAway / 60
	unit := "minutes"
	if away >= 120 {
		away /= 60
		unit = "hours"
	}
	return success("Welcome back!", fmt.Sprintf("Your farm mined %d cash while you were away for %d %s.", r.Earnings, away, unit))
}

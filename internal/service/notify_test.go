package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/game"
)

func TestNotificationFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		title    string
		severity domain.Severity
		contains string
	}{
		{"funds", &game.FundsError{Need: 1500, Have: 1000}, "Not enough cash", domain.SeverityWarning, "500"},
		{"wrapped funds", fmt.Errorf("buy: %w", &game.FundsError{Need: 10, Have: 0}), "Not enough cash", domain.SeverityWarning, "10"},
		{"workers", &game.WorkerShortageError{Role: domain.WorkerRoleTechnician, Required: 2, Have: 1}, "Not enough workers", domain.SeverityWarning, "1 more technician"},
		{"rebirth", &game.RequirementsError{Unmet: []game.Requirement{{Description: "Own a tier 1 computer", Have: 0, Need: 1}}}, "Rebirth locked", domain.SeverityWarning, "(0/1)"},
		{"grid", game.ErrGridFull, "Room is full", domain.SeverityWarning, ""},
		{"max", game.ErrMaxLevelReached, "Maxed out", domain.SeverityInfo, ""},
		{"unknown", game.ErrUnknownItem, "Not found", domain.SeverityError, ""},
		{"other", errors.New("boom"), "Something went wrong", domain.SeverityError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NotificationFor(tc.err)
			if n.Title != tc.title || n.Severity != tc.severity {
				t.Fatalf("got %+v", n)
			}
			if !strings.Contains(n.Message, tc.contains) {
				t.Fatalf("message %q does not contain %q", n.Message, tc.contains)
			}
		})
	}
}

func TestWelcomeBack(t *testing.T) {
	n := WelcomeBack(game.OfflineReport{SecondsAway: 3 * 3600, Earnings: 900})
	if !strings.Contains(n.Message, "3 hours") || !strings.Contains(n.Message, "900") {
		t.Fatalf("message = %q", n.Message)
	}
	n = WelcomeBack(game.OfflineReport{SecondsAway: 300, Earnings: 5})
	if !strings.Contains(n.Message, "5 minutes") {
		t.Fatalf("message = %q", n.Message)
	}
}

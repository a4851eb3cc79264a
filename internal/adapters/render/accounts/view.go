// Package accounts renders the account list for the terminal.
package accounts

import (
	"fmt"
	"time"

	"github.com/bnema/messenger-accounts-cli/internal/application"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

// Render formats the account list, marking the account whose session is
// open.
func Render(statuses []application.AccountStatus, opts RenderOptions) string {
	return renderView(statuses, opts, newStyles())
}

func renderView(statuses []application.AccountStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts registered."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, renderAccount(status, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.AccountStatus, opts RenderOptions, s styles) string {
	marker := s.inactive.Render("○")
	if status.Active {
		marker = s.active.Render("●")
	}

	title := accountTitle(status.Metadata.Name, string(status.Metadata.ID))
	detail := s.detail.Render(lastOpenedLabel(status.Metadata.LastOpened, opts.Now))

	return fmt.Sprintf("%s %s %s", marker, s.account.Render(title), detail)
}

func accountTitle(name, id string) string {
	if name == "" {
		return id
	}

	return fmt.Sprintf("%s (%s)", name, id)
}

func lastOpenedLabel(lastOpened, now time.Time) string {
	if lastOpened.IsZero() {
		return "never opened"
	}
	if now.IsZero() {
		now = time.Now()
	}

	age := now.Sub(lastOpened)
	if age < time.Minute {
		return "opened just now"
	}

	return fmt.Sprintf("opened %s ago", age.Round(time.Minute))
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/isdelr/todo-be/internal/client"
	"github.com/isdelr/todo-be/internal/models"
)

// shortIDLength is how much of an id list prints; commands accept any unique prefix.
const shortIDLength = 8

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	pendingStyle = lipgloss.NewStyle()

	doneStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

func renderTodos(mode client.Mode, todos []models.Todo) string {
	var b strings.Builder
	title := "Mes todos"
	if mode == client.ModeLocal {
		title += " (local)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if len(todos) == 0 {
		b.WriteString("Aucun todo\n")
		return b.String()
	}

	done := 0
	for _, t := range todos {
		box, style := "[ ]", pendingStyle
		if t.Status() == models.TodoStatusCompleted {
			box, style = "[x]", doneStyle
			done++
		}
		fmt.Fprintf(&b, "%s %s %s\n", idStyle.Render(shortID(t.ID)), box, style.Render(t.Text))
	}
	fmt.Fprintf(&b, "%d/%d terminé(s)\n", done, len(todos))
	return b.String()
}

package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

var profile = termenv.ColorProfile()

// Banner prints the play-mode header.
func Banner(version string) {
	title := termenv.String(" tourforge ").
		Foreground(profile.Color("#818cf8")).
		Bold()
	fmt.Printf("%s interactive tour %s\n\n", title, version)
}

// Prompt formats a question label for input.
func Prompt(label string) string {
	return termenv.String("? ").Foreground(profile.Color("#34d399")).Bold().String() +
		termenv.String(label).Bold().String() + " "
}

// Dim renders secondary text.
func Dim(s string) string {
	return termenv.String(s).Faint().String()
}

// Warn renders a warning line.
func Warn(s string) string {
	return termenv.String(s).Foreground(profile.Color("#fbbf24")).String()
}

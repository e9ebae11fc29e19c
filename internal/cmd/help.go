package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderRunHelp renders the help text for the run command with lipgloss styling
func renderRunHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Execute a session"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("paramexport run bracket-session.yaml"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Dry run - list every file the session would export"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("paramexport plan bracket-session.yaml"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Session file"))
	b.WriteString("\n")
	for _, line := range []string{
		"document: bracket.yaml       " + commentStyle.Render("# design document"),
		"objects: [Plate, Bracket]",
		"parameters:",
		"  - name: width",
		"    values: \"10; 20; 30\"",
		"  - name: label",
		"    values: \"'a'; 'b;c'\"",
		"format: stl",
		"template: \"{name}_{width}_{label}.stl\"",
		"output: ./out",
	} {
		b.WriteString("  " + commandStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(commentStyle.Render("Cancel a running export with Ctrl-C; it stops after the current"))
	b.WriteString("\n")
	b.WriteString(commentStyle.Render("object and restores every parameter and visibility flag it touched."))
	b.WriteString("\n")

	return b.String()
}

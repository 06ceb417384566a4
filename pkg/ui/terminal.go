package ui

import (
	"fmt"
	"io"
	"os"
)

// Logo is printed above interactive commands
const Logo = `
 ┌───┬───┬───┬───┬───┐
 │ X │ W │ ▓ │ S │ C │   xwscraper
 ├───┼───┼───┼───┼───┤   NYT crossword solve history
 │ R │ ▓ │ A │ P │ E │
 └───┴───┴───┴───┴───┘
`

// Out is where the print helpers write
var Out io.Writer = os.Stdout

// PrintLogo prints the logo
func PrintLogo() {
	fmt.Fprintln(Out, logoStyle.Render(Logo))
}

// PrintError prints an error message, followed by its cause when given
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, args[0])
	}
	fmt.Fprintln(Out, errorStyle.Render(msg))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	fmt.Fprintln(Out, successStyle.Render(msg))
}

// PrintInfo prints a labelled value
func PrintInfo(label string, value string) {
	fmt.Fprintf(Out, "%s: %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

// PrintWarning prints a warning, followed by its cause when given
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, args[0])
	}
	fmt.Fprintln(Out, warningStyle.Render(msg))
}

// PrintHighlight prints a banner line
func PrintHighlight(msg string) {
	fmt.Fprintln(Out, highlightStyle.Render(msg))
}

// Dim renders secondary text
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Package ui holds the terminal output of the command line tool: colored
// print helpers, the live batch progress line and the run summary table.
package ui

// Package ui provides terminal output helpers for the metaobjects CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Success prints a green success line.
func Success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", args...)
}

// Failure prints a red error line.
func Failure(w io.Writer, format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(w, "✗ "+format+"\n", args...)
}

// Info prints a cyan informational line.
func Info(w io.Writer, format string, args ...any) {
	color.New(color.FgCyan).Fprintf(w, format+"\n", args...)
}

// Table is a fixed-width table for tabular CLI output.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{writer: w, headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	for i, h := range t.headers {
		if i < len(t.headers)-1 {
			bold.Fprint(t.writer, padRight(h, widths[i]))
			fmt.Fprint(t.writer, "  ")
		} else {
			bold.Fprint(t.writer, h)
		}
	}
	fmt.Fprintln(t.writer)
	for i := range t.headers {
		fmt.Fprint(t.writer, strings.Repeat("-", widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i < len(row)-1 {
				fmt.Fprint(t.writer, padRight(cell, widths[i]))
				fmt.Fprint(t.writer, "  ")
			} else {
				fmt.Fprint(t.writer, cell)
			}
		}
		fmt.Fprintln(t.writer)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// statusKind classifies a status line for tag text and color.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

type statusTone struct {
	tag   string
	color string
}

var statusTones = map[statusKind]statusTone{
	statusInfo:  {tag: "info", color: "\x1b[34m"},
	statusOK:    {tag: "ok", color: "\x1b[32m"},
	statusWarn:  {tag: "warn", color: "\x1b[33m"},
	statusError: {tag: "fail", color: "\x1b[31m"},
}

// renderStatusLine formats one aligned `Label:  [tag] detail` line of
// the status display.
func renderStatusLine(label string, kind statusKind, detail string, colorize bool) string {
	tone := statusTones[kind]
	line := fmt.Sprintf("  %-16s [%s]", label+":", tone.tag)
	if detail != "" {
		line += " " + detail
	}
	if colorize && tone.color != "" {
		return tone.color + line + ansiReset
	}
	return line
}

// renderSectionHeader returns the section title with an underline rule.
func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("-", len(title))
	if colorize {
		title = statusTones[statusInfo].color + title + ansiReset
		rule = statusTones[statusInfo].color + rule + ansiReset
	}
	return []string{title, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

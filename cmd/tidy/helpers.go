package main

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// categoryDisplayName renders a category folder name for table output.
func categoryDisplayName(name string) string {
	return titleCaser.String(name)
}

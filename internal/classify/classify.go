package classify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Fallback is the category that receives files no other category claims.
const Fallback = "others"

// Category pairs a folder name with the lowercase dot-extensions it owns.
type Category struct {
	Name       string
	Extensions []string
}

// Table is an ordered, immutable extension-to-category mapping. The first
// category whose extension set contains a file's extension wins.
type Table struct {
	categories []Category
	byExt      map[string]string
}

func defaultCategories() []Category {
	return []Category{
		{Name: "images", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff"}},
		{Name: "videos", Extensions: []string{".mp4", ".mkv", ".mov", ".avi"}},
		{Name: "audio", Extensions: []string{".mp3", ".wav", ".aac", ".flac"}},
		{Name: "documents", Extensions: []string{".pdf", ".docx", ".txt", ".pptx"}},
		{Name: "spreadsheets", Extensions: []string{".xls", ".xlsx", ".csv"}},
		{Name: "archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
		{Name: "software", Extensions: []string{".exe", ".msi", ".apk", ".iso"}},
		{Name: Fallback, Extensions: nil},
	}
}

// DefaultTable returns the built-in eight-category table.
func DefaultTable() *Table {
	table, err := build(defaultCategories())
	if err != nil {
		// The built-in table is validated by construction.
		panic(err)
	}
	return table
}

// NewTable builds a table from the default categories with per-category
// extension overrides. Overrides replace the extension set of an existing
// category; they cannot introduce new categories or touch the fallback.
func NewTable(overrides map[string][]string) (*Table, error) {
	categories := defaultCategories()
	if len(overrides) == 0 {
		return build(categories)
	}

	known := make(map[string]int, len(categories))
	for i, category := range categories {
		known[category.Name] = i
	}
	for name, extensions := range overrides {
		idx, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown category %q in overrides", name)
		}
		if categories[idx].Name == Fallback {
			return nil, fmt.Errorf("category %q cannot carry extensions", Fallback)
		}
		cleaned := make([]string, 0, len(extensions))
		for _, ext := range extensions {
			normalized, err := normalizeExtension(ext)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}
			cleaned = append(cleaned, normalized)
		}
		categories[idx].Extensions = cleaned
	}
	return build(categories)
}

func build(categories []Category) (*Table, error) {
	byExt := make(map[string]string)
	for _, category := range categories {
		for _, ext := range category.Extensions {
			if ext == "" || !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("category %q: extension %q must start with a dot", category.Name, ext)
			}
			// First category keeps ownership when sets overlap.
			if _, claimed := byExt[ext]; claimed {
				continue
			}
			byExt[ext] = category.Name
		}
	}
	return &Table{categories: categories, byExt: byExt}, nil
}

func normalizeExtension(ext string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	if trimmed == "" {
		return "", fmt.Errorf("empty extension")
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	if trimmed == "." {
		return "", fmt.Errorf("extension %q has no name", ext)
	}
	return trimmed, nil
}

// Classify returns the category name for a file path. The extension is
// derived from the final path element and lowercased; unknown and missing
// extensions land in the fallback category. Every input has an answer.
func (t *Table) Classify(path string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(path)))
	if ext == "" {
		return Fallback
	}
	if name, ok := t.byExt[ext]; ok {
		return name
	}
	return Fallback
}

// Names returns category names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.categories))
	for _, category := range t.categories {
		names = append(names, category.Name)
	}
	return names
}

// Contains reports whether name is one of the table's categories.
func (t *Table) Contains(name string) bool {
	for _, category := range t.categories {
		if category.Name == name {
			return true
		}
	}
	return false
}

package main

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tidy/internal/config"
	"tidy/internal/ipc"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

// renderCountsTable renders per-category item counts in category order
// when the config is available, falling back to sorted names otherwise.
// A Total footer closes the table.
func renderCountsTable(cfg *config.Config, counts map[string]int) string {
	names := make([]string, 0, len(counts))
	if cfg != nil {
		if tbl, err := cfg.Table(); err == nil {
			for _, name := range tbl.Names() {
				if _, ok := counts[name]; ok {
					names = append(names, name)
				}
			}
		}
	}
	if len(names) == 0 {
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Category", "Items"})
	total := 0
	for _, name := range names {
		tw.AppendRow(table.Row{categoryDisplayName(name), counts[name]})
		total += counts[name]
	}
	tw.AppendFooter(table.Row{"Total", total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// renderJournalTable renders journal entries as returned by the daemon,
// newest first. Failed entries show the recorded error in place of the
// detail text.
func renderJournalTable(entries []ipc.JournalEntry) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"ID", "When", "Outcome", "File", "Category", "Detail"})
	for _, entry := range entries {
		detail := entry.Detail
		if entry.ErrorMessage != "" {
			detail = entry.ErrorMessage
		}
		tw.AppendRow(table.Row{
			entry.ID,
			entry.CreatedAt.Local().Format(time.DateTime),
			entry.Outcome,
			filepath.Base(entry.SourcePath),
			entry.Category,
			detail,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

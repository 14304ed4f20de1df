// Package output renders download plans and locale status as tables or JSON.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/13rac1/skysync/internal/types"
	"github.com/olekukonko/tablewriter"
)

// LocaleStatus compares the translation files present locally for a locale
// with the files the remote backend holds for it.
type LocaleStatus struct {
	Locale string `json:"locale"`
	Local  int    `json:"local"`
	Remote int    `json:"remote"`
	Status string `json:"status"`
}

// PrintPlan formats and prints the translation units of a download as an
// ASCII table. Destinations are shown relative to root.
func PrintPlan(units []types.TranslationUnit, root string) {
	if len(units) == 0 {
		fmt.Println("No source files found.")
		return
	}

	fmt.Println("Download Plan")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Locale", "Source", "Destination", "Present")

	for _, u := range units {
		present := "no"
		if fileExists(u.Destination) {
			present = "yes"
		}
		table.Append(u.Locale, u.Source.RelPath, relPath(root, u.Destination), present)
	}

	table.Render()
}

// PrintLocaleStatus formats and prints per-locale local and remote counts.
func PrintLocaleStatus(statuses []LocaleStatus) {
	if len(statuses) == 0 {
		fmt.Println("No locales found.")
		return
	}

	fmt.Println("Locales")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Locale", "Local", "Remote", "Status")

	for _, s := range statuses {
		table.Append(s.Locale, formatCount(s.Local), formatCount(s.Remote), s.Status)
	}

	table.Render()
}

// MergeLocaleStatus counts the existing destinations of units per locale and
// pairs them with remote file counts keyed by remote locale code. Locales
// only known remotely are appended in the order given by remoteOrder.
func MergeLocaleStatus(units []types.TranslationUnit, remote map[string]int, remoteOrder []string) []LocaleStatus {
	var statuses []LocaleStatus
	index := make(map[string]int)

	for _, u := range units {
		i, ok := index[u.RemoteCode]
		if !ok {
			i = len(statuses)
			index[u.RemoteCode] = i
			statuses = append(statuses, LocaleStatus{Locale: u.Locale, Remote: remote[u.RemoteCode]})
		}
		if fileExists(u.Destination) {
			statuses[i].Local++
		}
	}

	for _, code := range remoteOrder {
		if _, ok := index[code]; ok {
			continue
		}
		index[code] = len(statuses)
		statuses = append(statuses, LocaleStatus{Locale: code, Remote: remote[code]})
	}

	for i := range statuses {
		statuses[i].Status = determineStatus(statuses[i].Local, statuses[i].Remote)
	}
	return statuses
}

// formatCount formats a count for display, using "-" for zero values.
func formatCount(count int) string {
	if count == 0 {
		return "-"
	}
	return strconv.Itoa(count)
}

// determineStatus determines the sync status based on local and remote counts.
func determineStatus(localCount, remoteCount int) string {
	hasLocal := localCount > 0
	hasRemote := remoteCount > 0

	if !hasLocal && !hasRemote {
		return "-"
	}

	if hasLocal && !hasRemote {
		return "Local-only"
	}

	if !hasLocal && hasRemote {
		return "Remote-only"
	}

	if localCount == remoteCount {
		return "OK"
	}

	return "Mismatch"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

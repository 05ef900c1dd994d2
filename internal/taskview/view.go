// Package taskview derives the task table's visible rows from the raw
// task list plus the current filter and sort configuration. The pipeline
// is pure: filter first, then sort, never mutating the raw slice.
package taskview

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/taskboard/internal/models"
)

// Filter holds the four independent filter fields. An empty field is a
// no-op predicate; active predicates compose with logical AND.
type Filter struct {
	Category string // joined category name, "No Category" for tasks without one
	Status   string
	Owner    string
	Search   string // case-insensitive substring over name and description
}

// IsZero reports whether no predicate is active
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Status == "" && f.Owner == "" && f.Search == ""
}

// SortKey identifies one sortable column. Each key maps to an explicit
// string projection of the row; there is no field-name string matching.
type SortKey int

const (
	SortNone SortKey = iota
	SortID
	SortName
	SortDescription
	SortDueDate
	SortStatus
	SortOwner
	SortCategory // joined category name with the "No Category" fallback
)

// Sort holds the single active sort column and its direction. Only one
// column is sortable at a time.
type Sort struct {
	Key        SortKey
	Descending bool
}

// Toggle applies the column-header click rule: clicking the active
// ascending column flips it to descending; clicking anything else (or the
// active descending column) resets to ascending on the clicked column.
func Toggle(current Sort, clicked SortKey) Sort {
	if current.Key == clicked && !current.Descending {
		return Sort{Key: clicked, Descending: true}
	}
	return Sort{Key: clicked, Descending: false}
}

// sortValue projects a task onto the comparison string for a key
func sortValue(key SortKey, t models.Task) string {
	switch key {
	case SortID:
		return strconv.FormatUint(uint64(t.ID), 10)
	case SortName:
		return t.Name
	case SortDescription:
		return t.Description
	case SortDueDate:
		return t.DueDate.Format(time.RFC3339)
	case SortStatus:
		return t.Status
	case SortOwner:
		return t.Owner
	case SortCategory:
		return t.CategoryName()
	}
	return ""
}

// matches reports whether a task passes every active predicate
func matches(t models.Task, f Filter) bool {
	if f.Category != "" && t.CategoryName() != f.Category {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Owner != "" && t.Owner != f.Owner {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// Apply recomputes the derived view: filter, then sort. The result is
// always a fresh slice; with no sort key set the filtered rows keep their
// original relative order, and ties under any sort key stay stable.
func Apply(tasks []models.Task, f Filter, s Sort) []models.Task {
	view := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, f) {
			view = append(view, t)
		}
	}

	if s.Key == SortNone {
		return view
	}

	sort.SliceStable(view, func(i, j int) bool {
		a, b := sortValue(s.Key, view[i]), sortValue(s.Key, view[j])
		if s.Descending {
			return a > b
		}
		return a < b
	})

	return view
}

// Options holds the distinct values offered by the filter dropdowns
type Options struct {
	Categories []string
	Owners     []string
	Statuses   []string
}

// FilterOptions derives the dropdown option lists from the raw task list.
// They are recomputed on every refresh and never narrowed by the active
// filters; values keep first-appearance order.
func FilterOptions(tasks []models.Task) Options {
	var opts Options
	seenCategory := make(map[string]bool)
	seenOwner := make(map[string]bool)
	seenStatus := make(map[string]bool)

	for _, t := range tasks {
		if name := t.CategoryName(); !seenCategory[name] {
			seenCategory[name] = true
			opts.Categories = append(opts.Categories, name)
		}
		if !seenOwner[t.Owner] {
			seenOwner[t.Owner] = true
			opts.Owners = append(opts.Owners, t.Owner)
		}
		if !seenStatus[t.Status] {
			seenStatus[t.Status] = true
			opts.Statuses = append(opts.Statuses, t.Status)
		}
	}

	return opts
}

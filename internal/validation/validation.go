// Package validation checks candidate task and category payloads before
// they reach the database, producing a per-field error map and a
// normalized payload on success.
package validation

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Length limits count runes, not bytes, matching the wording of the
// error messages.
const (
	MaxOwnerLen        = 25
	MaxNameLen         = 50
	MaxCategoryNameLen = 20
)

// Accepted due date formats, tried in order
var dueDateFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// TaskPayload is a raw candidate task as submitted by a client. Due date
// and category id arrive as strings and are coerced during validation.
type TaskPayload struct {
	Name        string
	Description string
	DueDate     string
	Owner       string
	CategoryID  string
}

// TaskData is the normalized result of a successful task validation
type TaskData struct {
	Name        string
	Description string
	DueDate     time.Time
	Owner       string
	CategoryID  uint
}

// ValidateTask validates a candidate task payload. On failure the returned
// map has one message per offending field, keyed by the JSON field name.
//
// The due date boundary is fixed: a due date equal to today is accepted,
// anything earlier is rejected. Time-of-day is truncated to local midnight
// before comparing.
func ValidateTask(p TaskPayload) (TaskData, map[string]string) {
	errs := make(map[string]string)
	var data TaskData

	owner := strings.TrimSpace(p.Owner)
	if owner == "" {
		errs["owner"] = "Owner is required."
	} else if utf8.RuneCountInString(owner) > MaxOwnerLen {
		errs["owner"] = "Owner must be 25 characters or less."
	}
	data.Owner = owner

	name := strings.TrimSpace(p.Name)
	if name == "" {
		errs["name"] = "Title is required."
	} else if utf8.RuneCountInString(name) > MaxNameLen {
		errs["name"] = "Title must be 50 characters or less."
	}
	data.Name = name

	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "Description is required."
	}
	data.Description = p.Description

	due, err := ParseDueDate(p.DueDate)
	switch {
	case strings.TrimSpace(p.DueDate) == "":
		errs["duedate"] = "Due date is required."
	case err != nil:
		errs["duedate"] = "Due date is not a valid date."
	case dayOf(due).Before(dayOf(time.Now())):
		errs["duedate"] = "Due date cannot be earlier than today."
	default:
		data.DueDate = due
	}

	id, err := strconv.ParseUint(strings.TrimSpace(p.CategoryID), 10, 32)
	if err != nil || id == 0 {
		errs["categoryId"] = "Category ID must be a positive integer."
	} else {
		data.CategoryID = uint(id)
	}

	if len(errs) > 0 {
		return TaskData{}, errs
	}
	return data, nil
}

// ValidateCategory validates a candidate category name
func ValidateCategory(name string) map[string]string {
	name = strings.TrimSpace(name)
	if name == "" {
		return map[string]string{"name": "A category value is required."}
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLen {
		return map[string]string{"name": "Category must be 20 characters or less."}
	}
	return nil
}

// ParseDueDate parses a due date in any of the accepted formats
func ParseDueDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)

	var lastErr error
	for _, layout := range dueDateFormats {
		t, err := time.ParseInLocation(layout, input, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// dayOf truncates a time to local midnight
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

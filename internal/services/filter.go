package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// Filters holds the structured criteria of the advanced filter panel. Every
// field is independently optional; the zero value matches everything.
type Filters struct {
	EventID           string
	EmployeeMatricule string
	Type              string
	Classification    string
	StartDate         *time.Time
	EndDate           *time.Time
	StartMonth        *time.Time
	EndMonth          *time.Time
	StartYear         string
	EndYear           string
}

// IsZero reports whether no structured filter is active.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Clear resets every filter field to its default in one atomic update.
func (f *Filters) Clear() {
	*f = Filters{}
}

// Equal reports whether two filter sets impose the same constraints. Date
// bounds compare by instant, not by pointer.
func (f Filters) Equal(other Filters) bool {
	return f.EventID == other.EventID &&
		f.EmployeeMatricule == other.EmployeeMatricule &&
		f.Type == other.Type &&
		f.Classification == other.Classification &&
		timesEqual(f.StartDate, other.StartDate) &&
		timesEqual(f.EndDate, other.EndDate) &&
		timesEqual(f.StartMonth, other.StartMonth) &&
		timesEqual(f.EndMonth, other.EndMonth) &&
		f.StartYear == other.StartYear &&
		f.EndYear == other.EndYear
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Evaluate narrows records to those matching the free-text search term and
// every active structured filter (logical AND). It is pure: no I/O, no
// mutation of the input slice, identical inputs always yield identical
// output.
func Evaluate(records []models.Incident, search string, filters Filters) []models.Incident {
	term := strings.ToLower(strings.TrimSpace(search))

	matched := make([]models.Incident, 0, len(records))
	for _, inc := range records {
		if term != "" && !matchesSearch(inc, term) {
			continue
		}
		if !filters.Matches(inc) {
			continue
		}
		matched = append(matched, inc)
	}
	return matched
}

// matchesSearch checks the case-insensitive search term against the
// searchable fields: reporter matricule and names, type label,
// classification label and description.
func matchesSearch(inc models.Incident, term string) bool {
	if p := inc.Reporter; p != nil {
		if containsFold(p.Matricule, term) ||
			containsFold(p.Name, term) ||
			containsFold(p.FamilyName, term) {
			return true
		}
	}
	if containsFold(string(inc.Type), term) {
		return true
	}
	if containsFold(string(inc.Classification), term) {
		return true
	}
	if inc.Description != nil && containsFold(*inc.Description, term) {
		return true
	}
	return false
}

func containsFold(value, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(value), lowerTerm)
}

// Matches reports whether the incident satisfies every active structured
// filter. Inactive (empty) fields impose no constraint.
func (f Filters) Matches(inc models.Incident) bool {
	if f.EventID != "" {
		id, err := strconv.ParseUint(strings.TrimSpace(f.EventID), 10, 64)
		if err != nil || uint(id) != inc.ID {
			return false
		}
	}

	if f.EmployeeMatricule != "" && !matchesMatricule(inc, f.EmployeeMatricule) {
		return false
	}

	if f.Type != "" && string(inc.Type) != f.Type {
		return false
	}

	if f.Classification != "" && string(inc.Classification) != f.Classification {
		return false
	}

	if !f.matchesDateBounds(inc.StartDate) {
		return false
	}

	return true
}

func matchesMatricule(inc models.Incident, matricule string) bool {
	needle := strings.ToLower(strings.TrimSpace(matricule))
	if p := inc.Reporter; p != nil && containsFold(p.Matricule, needle) {
		return true
	}
	for _, emp := range inc.Employees {
		if containsFold(emp.Person.Matricule, needle) {
			return true
		}
	}
	return false
}

func (f Filters) matchesDateBounds(start *time.Time) bool {
	hasBound := f.StartDate != nil || f.EndDate != nil ||
		f.StartMonth != nil || f.EndMonth != nil ||
		f.StartYear != "" || f.EndYear != ""
	if !hasBound {
		return true
	}
	if start == nil {
		// A record without a start date cannot satisfy a date constraint.
		return false
	}

	day := dateOnly(*start)

	if f.StartDate != nil && day.Before(dateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && day.After(dateOnly(*f.EndDate)) {
		return false
	}

	if f.StartMonth != nil && day.Before(monthStart(*f.StartMonth)) {
		return false
	}
	if f.EndMonth != nil && !day.Before(monthStart(*f.EndMonth).AddDate(0, 1, 0)) {
		return false
	}

	if f.StartYear != "" {
		if year, err := strconv.Atoi(f.StartYear); err != nil || start.Year() < year {
			return false
		}
	}
	if f.EndYear != "" {
		if year, err := strconv.Atoi(f.EndYear); err != nil || start.Year() > year {
			return false
		}
	}

	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

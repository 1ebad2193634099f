package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FilterAll is the sentinel for "no selection" on every filter field.
const FilterAll = "ALL"

const dateLayout = "2006-01-02"

// Filter fields that can be named as the one just changed.
const (
	ChangedZonalManager     = "zm"
	ChangedReportingManager = "rm"
	ChangedEmployee         = "employee"
)

// FilterState is the viewer's drill-down selection. Dates are inclusive YYYY-MM-DD bounds.
type FilterState struct {
	StartDate        string `form:"startDate" json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate          string `form:"endDate" json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SelectedZM       string `form:"selectedZM" json:"selectedZM"`
	SelectedRM       string `form:"selectedRM" json:"selectedRM"`
	SelectedEmployee string `form:"selectedEmployee" json:"selectedEmployee"`
	SelectedCustomer string `form:"selectedCustomer" json:"selectedCustomer"`
	Status           string `form:"status" json:"status"`
	Search           string `form:"search" json:"search,omitempty"`
}

// IsSelected reports whether a filter value names something specific.
func IsSelected(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.EqualFold(value, FilterAll)
}

func normaliseSelection(value string) string {
	if !IsSelected(value) {
		return FilterAll
	}
	return strings.TrimSpace(value)
}

// Normalize trims every field and replaces empty selections with ALL.
func (f FilterState) Normalize() FilterState {
	return FilterState{
		StartDate:        strings.TrimSpace(f.StartDate),
		EndDate:          strings.TrimSpace(f.EndDate),
		SelectedZM:       normaliseSelection(f.SelectedZM),
		SelectedRM:       normaliseSelection(f.SelectedRM),
		SelectedEmployee: normaliseSelection(f.SelectedEmployee),
		SelectedCustomer: normaliseSelection(f.SelectedCustomer),
		Status:           normaliseSelection(f.Status),
		Search:           strings.TrimSpace(f.Search),
	}
}

// WithZonalManager selects zm and resets the dependent RM and employee selections.
func (f FilterState) WithZonalManager(zm string) FilterState {
	f.SelectedZM = normaliseSelection(zm)
	f.SelectedRM = FilterAll
	f.SelectedEmployee = FilterAll
	return f
}

// WithReportingManager selects rm and resets the employee selection.
func (f FilterState) WithReportingManager(rm string) FilterState {
	f.SelectedRM = normaliseSelection(rm)
	f.SelectedEmployee = FilterAll
	return f
}

// WithEmployee selects a single employee.
func (f FilterState) WithEmployee(email string) FilterState {
	f.SelectedEmployee = normaliseSelection(email)
	return f
}

// Narrow re-applies the reset rule for the field named by changed, keeping its current value.
func (f FilterState) Narrow(changed string) FilterState {
	switch changed {
	case ChangedZonalManager:
		return f.WithZonalManager(f.SelectedZM)
	case ChangedReportingManager:
		return f.WithReportingManager(f.SelectedRM)
	case ChangedEmployee:
		return f.WithEmployee(f.SelectedEmployee)
	default:
		return f
	}
}

// WithoutStatus returns the filter with the status selection cleared.
func (f FilterState) WithoutStatus() FilterState {
	f.Status = FilterAll
	return f
}

// DateRange parses the bounds. The end is returned exclusive: midnight after EndDate, so the whole
// end day is included.
func (f FilterState) DateRange(loc *time.Location) (start, end *time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	if f.StartDate != "" {
		t, perr := time.ParseInLocation(dateLayout, f.StartDate, loc)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid startDate %q: %w", f.StartDate, perr)
		}
		start = &t
	}
	if f.EndDate != "" {
		t, perr := time.ParseInLocation(dateLayout, f.EndDate, loc)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid endDate %q: %w", f.EndDate, perr)
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, fmt.Errorf("startDate must not be after endDate")
	}
	return start, end, nil
}

// CacheKey is the stable JSON encoding of the filter used to key cached results.
func (f FilterState) CacheKey() string {
	raw, err := json.Marshal(f.Normalize())
	if err != nil {
		return ""
	}
	return string(raw)
}

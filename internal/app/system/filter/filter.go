// Package filter narrows joined attendance records for the attendance page
// and derives the district and school choices for its dropdowns.
package filter

import (
	"strings"

	"github.com/dalemusser/hygienedash/internal/domain/models"
)

// All is the dropdown value that disables a district or school stage.
const All = "all"

// Criteria holds the attendance page filters. Zero value matches everything.
type Criteria struct {
	Search   string
	District string
	School   string
}

func inactive(v string) bool {
	return v == "" || v == All
}

// Active reports whether any stage would narrow the records.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" || !inactive(c.District) || !inactive(c.School)
}

// Apply runs search, then district, then school. The stages commute, so the
// order only matters for cost. The input slice is not modified.
func Apply(records []models.EnhancedAttendanceRecord, c Criteria) []models.EnhancedAttendanceRecord {
	q := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]models.EnhancedAttendanceRecord, 0, len(records))
	for _, rec := range records {
		if q != "" && !matchesSearch(rec, q) {
			continue
		}
		if !inactive(c.District) && rec.District != c.District {
			continue
		}
		if !inactive(c.School) && rec.School != c.School {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchesSearch expects q already trimmed and lower-cased.
func matchesSearch(rec models.EnhancedAttendanceRecord, q string) bool {
	for _, field := range []string{rec.TeacherName, rec.School, rec.TopicCovered, rec.AbsenceReason} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// UniqueDistricts lists distinct non-empty districts in first-seen order.
func UniqueDistricts(records []models.EnhancedAttendanceRecord) []string {
	return unique(records, func(r models.EnhancedAttendanceRecord) (string, bool) {
		return r.District, true
	})
}

// UniqueSchools lists distinct non-empty schools in first-seen order, limited
// to selectedDistrict unless it is empty or "all".
func UniqueSchools(records []models.EnhancedAttendanceRecord, selectedDistrict string) []string {
	return unique(records, func(r models.EnhancedAttendanceRecord) (string, bool) {
		return r.School, inactive(selectedDistrict) || r.District == selectedDistrict
	})
}

func unique(records []models.EnhancedAttendanceRecord, pick func(models.EnhancedAttendanceRecord) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, rec := range records {
		v, ok := pick(rec)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

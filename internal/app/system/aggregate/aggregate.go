// Package aggregate joins attendance records to registrations and reduces
// them to dashboard statistics and chart series.
//
// Every function here is pure: inputs are never modified and identical
// inputs always produce identical output.
package aggregate

import (
	"math"

	"github.com/dalemusser/hygienedash/internal/app/system/classify"
	"github.com/dalemusser/hygienedash/internal/domain/models"
)

// UnknownDistrict is the chart group for attendance with no known district.
const UnknownDistrict = "Unknown"

// usersByPhone indexes users by phone. The first user with a given phone wins.
func usersByPhone(users []models.UserRecord) map[string]*models.UserRecord {
	idx := make(map[string]*models.UserRecord, len(users))
	for i := range users {
		if _, ok := idx[users[i].Phone]; !ok {
			idx[users[i].Phone] = &users[i]
		}
	}
	return idx
}

// count treats negative counts from the API as zero.
func count(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Join left-joins attendance to users on phone. Every attendance record is
// kept; unmatched records get the Unknown placeholders.
func Join(attendance []models.AttendanceRecord, users []models.UserRecord) []models.EnhancedAttendanceRecord {
	idx := usersByPhone(users)
	out := make([]models.EnhancedAttendanceRecord, 0, len(attendance))
	for _, rec := range attendance {
		e := models.EnhancedAttendanceRecord{
			AttendanceRecord: rec,
			TeacherName:      models.UnknownTeacher,
			School:           models.UnknownSchool,
			District:         models.UnknownDistrict,
		}
		if u, ok := idx[rec.Phone]; ok {
			e.TeacherName = orDefault(u.Name, models.UnknownTeacher)
			e.School = orDefault(u.School, models.UnknownSchool)
			e.District = orDefault(u.District, models.UnknownDistrict)
		}
		out = append(out, e)
	}
	return out
}

// CalculateStats computes the dashboard summary in O(n+m).
func CalculateStats(attendance []models.AttendanceRecord, users []models.UserRecord) models.DashboardStats {
	var present, absent int
	phones := make(map[string]struct{}, len(attendance))
	for _, rec := range attendance {
		present += count(rec.StudentsPresent)
		absent += count(rec.StudentsAbsent)
		phones[rec.Phone] = struct{}{}
	}

	schools := make(map[string]struct{})
	districts := make(map[string]struct{})
	for _, u := range users {
		if u.School != "" {
			schools[u.School] = struct{}{}
		}
		if u.District != "" {
			districts[u.District] = struct{}{}
		}
	}

	return models.DashboardStats{
		TotalPresent:   present,
		TotalAbsent:    absent,
		AttendanceRate: Rate(present, absent),
		TotalSchools:   len(schools),
		TotalDistricts: len(districts),
		TotalTeachers:  len(phones),
	}
}

// Rate returns present/(present+absent) as a percentage rounded to one
// decimal place, or 0 when there is nothing to divide.
func Rate(present, absent int) float64 {
	total := present + absent
	if total <= 0 {
		return 0
	}
	pct := float64(present) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// ProcessAbsenceReasons sums students_absent per reason category. Buckets
// are returned in classify.Ordered order; a category appears only when at
// least one record was assigned to it.
func ProcessAbsenceReasons(attendance []models.AttendanceRecord) []models.ReasonBucket {
	sums := make(map[classify.Category]int, len(classify.Ordered))
	for _, rec := range attendance {
		c := classify.Reason(rec.AbsenceReason)
		sums[c] += count(rec.StudentsAbsent)
	}

	out := make([]models.ReasonBucket, 0, len(sums))
	for _, c := range classify.Ordered {
		if v, ok := sums[c]; ok {
			out = append(out, models.ReasonBucket{Name: c.Label(), Value: v})
		}
	}
	return out
}

// ProcessEnhancedAbsenceReasons is ProcessAbsenceReasons over joined records,
// used for the filtered view on the attendance page.
func ProcessEnhancedAbsenceReasons(records []models.EnhancedAttendanceRecord) []models.ReasonBucket {
	plain := make([]models.AttendanceRecord, len(records))
	for i := range records {
		plain[i] = records[i].AttendanceRecord
	}
	return ProcessAbsenceReasons(plain)
}

// ProcessAttendanceByDistrict groups present/absent sums by the district of
// each record's teacher. Groups appear in the order their district is first
// seen while scanning attendance.
func ProcessAttendanceByDistrict(attendance []models.AttendanceRecord, users []models.UserRecord) []models.DistrictAttendance {
	idx := usersByPhone(users)
	pos := make(map[string]int)
	var out []models.DistrictAttendance

	for _, rec := range attendance {
		district := UnknownDistrict
		if u, ok := idx[rec.Phone]; ok && u.District != "" {
			district = u.District
		}
		i, seen := pos[district]
		if !seen {
			i = len(out)
			pos[district] = i
			out = append(out, models.DistrictAttendance{District: district})
		}
		out[i].Present += count(rec.StudentsPresent)
		out[i].Absent += count(rec.StudentsAbsent)
	}
	return out
}

// Totals summarizes joined records for the attendance page summary cards.
func Totals(records []models.EnhancedAttendanceRecord) models.RecordTotals {
	t := models.RecordTotals{Records: len(records)}
	for _, rec := range records {
		t.Present += count(rec.StudentsPresent)
		t.Absent += count(rec.StudentsAbsent)
	}
	return t
}

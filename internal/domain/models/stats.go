// internal/domain/models/stats.go
package models

// DashboardStats is derived from one fetch cycle and never stored.
type DashboardStats struct {
	TotalPresent   int     `json:"totalPresent"`
	TotalAbsent    int     `json:"totalAbsent"`
	AttendanceRate float64 `json:"attendanceRate"` // percent, one decimal
	TotalSchools   int     `json:"totalSchools"`
	TotalDistricts int     `json:"totalDistricts"`
	TotalTeachers  int     `json:"totalTeachers"`
}

// ReasonBucket is one slice of the absence-reasons chart.
type ReasonBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DistrictAttendance is one bar group of the attendance-by-district chart.
type DistrictAttendance struct {
	District string `json:"district"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`
}

// RecordTotals summarizes a (possibly filtered) set of attendance records.
type RecordTotals struct {
	Records int `json:"records"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

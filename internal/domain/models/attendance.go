// internal/domain/models/attendance.go
package models

// AttendanceRecord is one lesson report submitted by a teacher through the
// upstream API (GET /attendances). Phone is the join key to UserRecord and is
// not unique: a teacher submits one record per lesson.
type AttendanceRecord struct {
	ID              int    `json:"id"`
	Phone           string `json:"phone"`
	StudentsPresent int    `json:"students_present"`
	StudentsAbsent  int    `json:"students_absent"`
	AbsenceReason   string `json:"absence_reason"`
	TopicCovered    string `json:"topic_covered"`
}

// Placeholders used when an attendance record has no matching registration.
const (
	UnknownTeacher  = "Unknown Teacher"
	UnknownSchool   = "Unknown School"
	UnknownDistrict = "Unknown District"
)

// EnhancedAttendanceRecord is an AttendanceRecord left-joined with the
// registration that shares its phone number.
type EnhancedAttendanceRecord struct {
	AttendanceRecord
	TeacherName string `json:"teacher_name"`
	School      string `json:"school"`
	District    string `json:"district"`
}

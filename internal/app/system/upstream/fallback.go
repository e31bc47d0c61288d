package upstream

import "github.com/dalemusser/hygienedash/internal/domain/models"

// FallbackAttendance returns the sample attendance shown when the API is
// unavailable. Each call returns a new slice.
func FallbackAttendance() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		{ID: 1, Phone: "0772207616", StudentsPresent: 30, StudentsAbsent: 2, AbsenceReason: "2 students sick", TopicCovered: "Personal Hygiene"},
		{ID: 2, Phone: "0772207616", StudentsPresent: 18, StudentsAbsent: 21, AbsenceReason: "bad weather, it was raining too much", TopicCovered: "Hand Washing Techniques"},
		{ID: 3, Phone: "0774405405", StudentsPresent: 25, StudentsAbsent: 8, AbsenceReason: "school fees", TopicCovered: "Dental Hygiene"},
		{ID: 4, Phone: "0700677231", StudentsPresent: 40, StudentsAbsent: 12, AbsenceReason: "malaria outbreak", TopicCovered: "Food Safety"},
		{ID: 5, Phone: "0708210793", StudentsPresent: 35, StudentsAbsent: 5, AbsenceReason: "flu symptoms", TopicCovered: "Environmental Hygiene"},
	}
}

// FallbackUsers returns the sample registrations shown when the API is
// unavailable. Each call returns a new slice.
func FallbackUsers() []models.UserRecord {
	return []models.UserRecord{
		{ID: 1, Phone: "0772207616", Name: "Katende Brian", School: "St. Mary's Primary", District: "Kisoro", Language: "English"},
		{ID: 2, Phone: "0774405405", Name: "John Doe", School: "Kampala Primary", District: "Isingiro", Language: "English"},
		{ID: 3, Phone: "0700677231", Name: "Charity Atuheire", School: "Mary Secondary School", District: "Kaliro", Language: "English"},
		{ID: 4, Phone: "0708210793", Name: "Sarah Nakato", School: "Luweero Primary", District: "Ibanda", Language: "English"},
	}
}

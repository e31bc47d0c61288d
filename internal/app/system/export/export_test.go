package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func records() []models.EnhancedAttendanceRecord {
	return []models.EnhancedAttendanceRecord{
		{
			AttendanceRecord: models.AttendanceRecord{ID: 1, Phone: "0772207616", StudentsPresent: 30, StudentsAbsent: 2, AbsenceReason: "2 students sick", TopicCovered: "Personal Hygiene"},
			TeacherName:      "Katende Brian", School: "St. Mary's Primary", District: "Kisoro",
		},
		{
			AttendanceRecord: models.AttendanceRecord{ID: 2, Phone: "0700", StudentsPresent: 1, StudentsAbsent: 1, AbsenceReason: "=HYPERLINK(\"x\")", TopicCovered: "<b>Soap</b>"},
			TeacherName:      models.UnknownTeacher, School: models.UnknownSchool, District: models.UnknownDistrict,
		},
	}
}

func TestRow(t *testing.T) {
	row := Row(records()[0])
	assert.Equal(t, []string{
		"1", "Katende Brian", "0772207616", "St. Mary's Primary", "Kisoro",
		"Personal Hygiene", "30", "2", "2 students sick", "Health Issues",
	}, row)
	assert.Len(t, row, len(Header))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Soap", rows[2][5])
	assert.Equal(t, `'=HYPERLINK("x")`, rows[2][8])
	assert.Equal(t, "Other Reasons", rows[2][9])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Katende Brian", rows[1][1])
	assert.Equal(t, "30", rows[1][6])
	assert.Equal(t, "Soap", rows[2][5])
}

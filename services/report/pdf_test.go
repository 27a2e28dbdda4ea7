package reportsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core/grade"
)

func TestRenderCourseReport(t *testing.T) {
	svc := NewPDFService()
	c := grade.ReportCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"}
	grades := []grade.Grade{
		{
			StudentName: "Ana María Pérez",
			Corte1:      null.Float64From(3.5),
			Corte2:      null.Float64From(4),
			Corte3:      null.Float64From(4.5),
			FinalGrade:  null.Float64From(4.03),
			LastUpdated: time.Now(),
		},
		{StudentName: "José Gómez", Corte1: null.Float64From(2)},
	}

	data, err := svc.RenderCourseReport(c, grades)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderCourseReport_emptyRoster(t *testing.T) {
	svc := NewPDFService()

	data, err := svc.RenderCourseReport(grade.ReportCourse{Name: "Física", Code: "FIS101"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

// Package reportsvc renders course grade sheets as PDF documents.
package reportsvc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core/grade"
)

type pdfService struct{}

var _ grade.ReportRenderer = (*pdfService)(nil)

func NewPDFService() grade.ReportRenderer {
	return &pdfService{}
}

func (svc pdfService) RenderCourseReport(c grade.ReportCourse, grades []grade.Grade) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // Spanish labels carry accents
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Reporte de Calificaciones"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Curso: %s (%s)", c.Name, c.Code)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Periodo académico: %s", c.AcademicPeriod)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generado: %s", time.Now().UTC().Format("2006-01-02 15:04 MST"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{66, 28, 28, 28, 28}
	headers := []string{"Estudiante", "Corte 1 (30%)", "Corte 2 (35%)", "Corte 3 (35%)", "Nota Final"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, g := range grades {
		pdf.CellFormat(widths[0], 7, tr(g.StudentName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmtScore(g.Corte1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmtScore(g.Corte2), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmtScore(g.Corte3), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmtScore(g.FinalGrade), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	if len(grades) == 0 {
		pdf.CellFormat(178, 7, tr("Sin estudiantes inscritos"), "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering PDF")
	}
	return buf.Bytes(), nil
}

func fmtScore(score null.Float64) string {
	if !score.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", score.Float64)
}

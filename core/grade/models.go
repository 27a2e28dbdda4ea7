package grade

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
)

// Grade holds a student's partial scores ("cortes") for one enrollment.
// The three cortes and the derived final grade are absent until set;
// absence is meaningful and distinct from zero.
type Grade struct {
	ID           string       `json:"id"`
	EnrollmentID string       `json:"enrollment_id"`
	CourseID     string       `json:"course_id"`
	StudentID    string       `json:"student_id"`
	StudentName  string       `json:"student_name"` // snapshot taken at enrollment
	Corte1       null.Float64 `json:"corte1"`
	Corte2       null.Float64 `json:"corte2"`
	Corte3       null.Float64 `json:"corte3"`
	FinalGrade   null.Float64 `json:"final_grade"`
	LastUpdated  time.Time    `json:"last_updated"` // UTC
}

// GradeInput is a partial update: only the cortes present in the request
// body are touched, the rest keep their stored values.
type GradeInput struct {
	EnrollmentID string       `json:"enrollment_id" validate:"required"`
	Corte1       null.Float64 `json:"corte1"`
	Corte2       null.Float64 `json:"corte2"`
	Corte3       null.Float64 `json:"corte3"`
}

// Validate range-checks every supplied corte before anything is written;
// a single out-of-range value rejects the whole request.
func (gi *GradeInput) Validate(validate *validator.Validate) error {
	gi.EnrollmentID = core.CleanString(gi.EnrollmentID)
	if err := validate.Struct(gi); err != nil {
		return err
	}

	var flds []core.FieldError
	for _, c := range []struct {
		name  string
		value null.Float64
	}{
		{"corte1", gi.Corte1},
		{"corte2", gi.Corte2},
		{"corte3", gi.Corte3},
	} {
		if c.value.Valid && !ValidPartial(c.value.Float64) {
			flds = append(flds, core.FieldError{Field: c.name, Error: errScoreOutOfRange.Error()})
		}
	}
	if flds != nil {
		return core.NewValidationError(errScoreOutOfRange, flds...)
	}
	return nil
}

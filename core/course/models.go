package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/acadmx/notas/core"
)

type Course struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	TeacherID      string    `json:"teacher_id"`
	AcademicPeriod string    `json:"academic_period"`
	AccessCode     string    `json:"access_code"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// Enrollment ties a student to a course. At most one exists per
// (student, course) pair, and each one owns exactly one paired grade row.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"` // UTC
}

// NewCourse carries the teacher-editable course fields; used for both
// creation and updates.
type NewCourse struct {
	Name           string `json:"name" validate:"required"`
	Code           string `json:"code" validate:"required"`
	Description    string `json:"description"`
	AcademicPeriod string `json:"academic_period" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Description = core.CleanString(nc.Description)
	nc.AcademicPeriod = core.CleanString(nc.AcademicPeriod)
	return validate.Struct(nc)
}

type EnrollCourse struct {
	AccessCode string `json:"access_code" validate:"required"`
}

func (ec *EnrollCourse) Validate(validate *validator.Validate) error {
	ec.AccessCode = core.CleanString(ec.AccessCode)
	return validate.Struct(ec)
}

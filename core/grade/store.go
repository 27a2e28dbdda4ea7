package grade

import (
	"context"

	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
)

// gradeStore adapts Repository to the course package's GradeStore so
// enrollment and course deletion can touch grade rows without the course
// package depending on this one.
type gradeStore struct {
	repo Repository
}

var _ course.GradeStore = (*gradeStore)(nil)

func NewGradeStore(repo Repository) course.GradeStore {
	return &gradeStore{repo: repo}
}

func (gs *gradeStore) CreateEnrollmentGrade(ctx context.Context, e course.Enrollment, studentName string, exec ...core.DBExecutor) error {
	g := Grade{
		EnrollmentID: e.ID,
		CourseID:     e.CourseID,
		StudentID:    e.StudentID,
		StudentName:  studentName,
		LastUpdated:  e.EnrolledAt,
	}
	_, err := gs.repo.CreateGrade(ctx, g, exec...)
	return errors.Wrap(err, "creating enrollment grade")
}

func (gs *gradeStore) DeleteCourseGrades(ctx context.Context, courseID string, exec ...core.DBExecutor) error {
	return gs.repo.DeleteCourseGrades(ctx, courseID, exec...)
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
)

type enrollmentRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	CourseID   string    `db:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at"`
}

type enrollmentRepository struct {
	exec core.DBExecutor
}

var _ course.EnrollmentRepository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(exec core.DBExecutor) *enrollmentRepository {
	return &enrollmentRepository{exec: exec}
}

func (repo enrollmentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo enrollmentRepository) unpack(row enrollmentRow) course.Enrollment {
	return course.Enrollment{
		ID:         row.ID,
		StudentID:  row.StudentID,
		CourseID:   row.CourseID,
		EnrolledAt: row.EnrolledAt,
	}
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, e course.Enrollment, exec ...core.DBExecutor) (course.Enrollment, error) {
	e.ID = uuid.New().String()
	row := enrollmentRow{
		ID:         e.ID,
		StudentID:  e.StudentID,
		CourseID:   e.CourseID,
		EnrolledAt: e.EnrolledAt.UTC(),
	}
	q := `INSERT INTO enrollments (id, student_id, course_id, enrolled_at)
	      VALUES (:id, :student_id, :course_id, :enrolled_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row); err != nil {
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return repo.unpack(row), nil
}

func (repo enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Enrollment{}, course.ErrNotFound
	}
	var row enrollmentRow
	q := `SELECT * FROM enrollments WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Enrollment{}, course.ErrNotFound
		}
		return course.Enrollment{}, errors.Wrap(err, "finding enrollment by ID")
	}
	return repo.unpack(row), nil
}

func (repo enrollmentRepository) EnrollmentExists(ctx context.Context, studentID, courseID string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &exists, q, studentID, courseID); err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}

func (repo enrollmentRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]course.Enrollment, error) {
	rows := []enrollmentRow{}
	q := `SELECT * FROM enrollments WHERE course_id = $1 ORDER BY enrolled_at`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course enrollments")
	}
	enrollments := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, repo.unpack(row))
	}
	return enrollments, nil
}

func (repo enrollmentRepository) DeleteCourseEnrollments(ctx context.Context, courseID string, exec ...core.DBExecutor) error {
	q := `DELETE FROM enrollments WHERE course_id = $1`
	if _, err := repo.getExec(exec).ExecContext(ctx, q, courseID); err != nil {
		return errors.Wrap(err, "deleting course enrollments")
	}
	return nil
}

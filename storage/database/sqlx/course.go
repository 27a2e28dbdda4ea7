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

type courseRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Code           string    `db:"code"`
	Description    string    `db:"description"`
	TeacherID      string    `db:"teacher_id"`
	AcademicPeriod string    `db:"academic_period"`
	AccessCode     string    `db:"access_code"`
	CreatedAt      time.Time `db:"created_at"`
}

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{exec: exec}
}

func (repo courseRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo courseRepository) pack(c course.Course) courseRow {
	return courseRow{
		ID:             c.ID,
		Name:           c.Name,
		Code:           c.Code,
		Description:    c.Description,
		TeacherID:      c.TeacherID,
		AcademicPeriod: c.AcademicPeriod,
		AccessCode:     c.AccessCode,
		CreatedAt:      c.CreatedAt.UTC(),
	}
}

func (repo courseRepository) unpack(row courseRow) course.Course {
	return course.Course{
		ID:             row.ID,
		Name:           row.Name,
		Code:           row.Code,
		Description:    row.Description,
		TeacherID:      row.TeacherID,
		AcademicPeriod: row.AcademicPeriod,
		AccessCode:     row.AccessCode,
		CreatedAt:      row.CreatedAt,
	}
}

func (repo courseRepository) unpackSlice(rows []courseRow) []course.Course {
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, repo.unpack(row))
	}
	return courses
}

// trapNoRowsErr maps psql "no rows" err to course.ErrNotFound
func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CheckCodeUniqueness(ctx context.Context, code string, excludedCourses []course.Course, exec ...core.DBExecutor) error {
	q := `SELECT EXISTS (SELECT 1 FROM courses WHERE code = $1)`
	args := []interface{}{code}
	if len(excludedCourses) > 0 {
		ids := make([]string, 0, len(excludedCourses))
		for _, c := range excludedCourses {
			ids = append(ids, c.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM courses WHERE code = ? AND id NOT IN (?))`, code, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		q = sqlx.Rebind(sqlx.DOLLAR, q)
	}

	var exists bool
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking code uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	c.ID = uuid.New().String()
	row := repo.pack(c)
	q := `INSERT INTO courses (id, name, code, description, teacher_id, academic_period, access_code, created_at)
	      VALUES (:id, :name, :code, :description, :teacher_id, :academic_period, :access_code, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.unpack(row), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	q := `SELECT * FROM courses WHERE id = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course by ID")
	}
	return repo.unpack(row), nil
}

func (repo courseRepository) GetCourseByAccessCode(ctx context.Context, accessCode string, exec ...core.DBExecutor) (course.Course, error) {
	var row courseRow
	q := `SELECT * FROM courses WHERE access_code = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, accessCode); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course by access code")
	}
	return repo.unpack(row), nil
}

func (repo courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]course.Course, error) {
	rows := []courseRow{}
	q := `SELECT * FROM courses WHERE teacher_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher courses")
	}
	return repo.unpackSlice(rows), nil
}

func (repo courseRepository) QueryCoursesByStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]course.Course, error) {
	rows := []courseRow{}
	q := `SELECT c.* FROM courses c
	      JOIN enrollments e ON e.course_id = c.id
	      WHERE e.student_id = $1
	      ORDER BY e.enrolled_at DESC`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	return repo.unpackSlice(rows), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	row := repo.pack(c)
	q := `UPDATE courses SET name = :name, code = :code, description = :description, academic_period = :academic_period
	      WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.unpack(row), nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	q := `DELETE FROM courses WHERE id = $1`
	if _, err := repo.getExec(exec).ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

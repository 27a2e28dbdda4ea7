package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/grade"
)

type gradeRow struct {
	ID           string       `db:"id"`
	EnrollmentID string       `db:"enrollment_id"`
	CourseID     string       `db:"course_id"`
	StudentID    string       `db:"student_id"`
	StudentName  string       `db:"student_name"`
	Corte1       null.Float64 `db:"corte1"`
	Corte2       null.Float64 `db:"corte2"`
	Corte3       null.Float64 `db:"corte3"`
	FinalGrade   null.Float64 `db:"final_grade"`
	LastUpdated  time.Time    `db:"last_updated"`
}

type gradeRepository struct {
	exec core.DBExecutor
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{exec: exec}
}

func (repo gradeRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo gradeRepository) pack(g grade.Grade) gradeRow {
	return gradeRow{
		ID:           g.ID,
		EnrollmentID: g.EnrollmentID,
		CourseID:     g.CourseID,
		StudentID:    g.StudentID,
		StudentName:  g.StudentName,
		Corte1:       g.Corte1,
		Corte2:       g.Corte2,
		Corte3:       g.Corte3,
		FinalGrade:   g.FinalGrade,
		LastUpdated:  g.LastUpdated.UTC(),
	}
}

func (repo gradeRepository) unpack(row gradeRow) grade.Grade {
	return grade.Grade{
		ID:           row.ID,
		EnrollmentID: row.EnrollmentID,
		CourseID:     row.CourseID,
		StudentID:    row.StudentID,
		StudentName:  row.StudentName,
		Corte1:       row.Corte1,
		Corte2:       row.Corte2,
		Corte3:       row.Corte3,
		FinalGrade:   row.FinalGrade,
		LastUpdated:  row.LastUpdated,
	}
}

// trapNoRowsErr maps psql "no rows" err to grade.ErrNotFound
func (repo gradeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grade.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo gradeRepository) CreateGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	g.ID = uuid.New().String()
	row := repo.pack(g)
	q := `INSERT INTO grades (id, enrollment_id, course_id, student_id, student_name, corte1, corte2, corte3, final_grade, last_updated)
	      VALUES (:id, :enrollment_id, :course_id, :student_id, :student_name, :corte1, :corte2, :corte3, :final_grade, :last_updated)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row); err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return repo.unpack(row), nil
}

func (repo gradeRepository) GetGradeByEnrollment(ctx context.Context, enrollmentID string, exec ...core.DBExecutor) (grade.Grade, error) {
	var row gradeRow
	q := `SELECT * FROM grades WHERE enrollment_id = $1`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, enrollmentID); err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "finding grade by enrollment")
	}
	return repo.unpack(row), nil
}

func (repo gradeRepository) GetStudentCourseGrade(ctx context.Context, studentID, courseID string, exec ...core.DBExecutor) (grade.Grade, error) {
	var row gradeRow
	q := `SELECT * FROM grades WHERE student_id = $1 AND course_id = $2`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, studentID, courseID); err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "finding student course grade")
	}
	return repo.unpack(row), nil
}

func (repo gradeRepository) QueryGradesByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]grade.Grade, error) {
	rows := []gradeRow{}
	q := `SELECT * FROM grades WHERE course_id = $1 ORDER BY student_name`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, repo.unpack(row))
	}
	return grades, nil
}

func (repo gradeRepository) UpdateGradeScores(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	row := repo.pack(g)
	q := `UPDATE grades SET corte1 = :corte1, corte2 = :corte2, corte3 = :corte3, final_grade = :final_grade, last_updated = :last_updated
	      WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, row)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "updating grade scores")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.Grade{}, grade.ErrNotFound
	}
	return repo.unpack(row), nil
}

func (repo gradeRepository) DeleteCourseGrades(ctx context.Context, courseID string, exec ...core.DBExecutor) error {
	q := `DELETE FROM grades WHERE course_id = $1`
	if _, err := repo.getExec(exec).ExecContext(ctx, q, courseID); err != nil {
		return errors.Wrap(err, "deleting course grades")
	}
	return nil
}

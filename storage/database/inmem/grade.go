package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(_ context.Context, g grade.Grade, _ ...core.DBExecutor) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g.ID = uuid.New().String()
	repo.db.grades[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) GetGradeByEnrollment(_ context.Context, enrollmentID string, _ ...core.DBExecutor) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, g := range repo.db.grades {
		if g.EnrollmentID == enrollmentID {
			return *g, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) GetStudentCourseGrade(_ context.Context, studentID, courseID string, _ ...core.DBExecutor) (grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, g := range repo.db.grades {
		if g.StudentID == studentID && g.CourseID == courseID {
			return *g, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) QueryGradesByCourse(_ context.Context, courseID string, _ ...core.DBExecutor) ([]grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, g := range repo.db.grades {
		if g.CourseID == courseID {
			grades = append(grades, *g)
		}
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].StudentName < grades[j].StudentName })
	return grades, nil
}

func (repo *gradeRepository) UpdateGradeScores(_ context.Context, g grade.Grade, _ ...core.DBExecutor) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.grades[g.ID]
	if !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	orig.Corte1 = g.Corte1
	orig.Corte2 = g.Corte2
	orig.Corte3 = g.Corte3
	orig.FinalGrade = g.FinalGrade
	orig.LastUpdated = g.LastUpdated
	return *orig, nil
}

func (repo *gradeRepository) DeleteCourseGrades(_ context.Context, courseID string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, g := range repo.db.grades {
		if g.CourseID == courseID {
			delete(repo.db.grades, id)
		}
	}
	return nil
}

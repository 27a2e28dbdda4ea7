package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
	"github.com/acadmx/notas/core/notification"
	"github.com/acadmx/notas/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("grade not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotCourseTeacher   = errors.New("not the course teacher")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		GetGradeByEnrollment(ctx context.Context, enrollmentID string, exec ...core.DBExecutor) (Grade, error)
		GetStudentCourseGrade(ctx context.Context, studentID, courseID string, exec ...core.DBExecutor) (Grade, error)
		QueryGradesByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Grade, error)
		// UpdateGradeScores persists the cortes, final grade and timestamp.
		UpdateGradeScores(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		DeleteCourseGrades(ctx context.Context, courseID string, exec ...core.DBExecutor) error
	}

	// Notifier dispatches a notification without blocking; failures are
	// swallowed by the implementation. notification.Dispatcher satisfies it.
	Notifier interface {
		Notify(userID, message, notifType string)
	}

	Service interface {
		// Upsert merges the supplied cortes into the stored grade,
		// recomputes the final grade and notifies the student.
		Upsert(ctx context.Context, teacher user.User, in GradeInput) (Grade, error)
		QueryByCourse(ctx context.Context, teacher user.User, courseID string) ([]Grade, error)
		GetStudentGrade(ctx context.Context, student user.User, courseID string) (Grade, error)
	}

	service struct {
		repo       Repository
		courseRepo course.Repository
		enrRepo    course.EnrollmentRepository
		notifier   Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, courseRepo course.Repository, enrRepo course.EnrollmentRepository, notifier Notifier) Service {
	return &service{
		repo:       repo,
		courseRepo: courseRepo,
		enrRepo:    enrRepo,
		notifier:   notifier,
	}
}

func (svc *service) Upsert(ctx context.Context, teacher user.User, in GradeInput) (Grade, error) {
	enr, err := svc.enrRepo.GetEnrollmentByID(ctx, in.EnrollmentID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return Grade{}, ErrEnrollmentNotFound
		}
		return Grade{}, err
	}

	c, err := svc.courseRepo.GetCourseByID(ctx, enr.CourseID)
	if err != nil {
		return Grade{}, errors.Wrap(err, "finding enrollment course")
	}
	if c.TeacherID != teacher.ID {
		return Grade{}, ErrNotCourseTeacher
	}

	g, err := svc.repo.GetGradeByEnrollment(ctx, enr.ID)
	if err != nil {
		return Grade{}, err
	}

	// partial update: absent fields keep their stored values
	if in.Corte1.Valid {
		g.Corte1 = in.Corte1
	}
	if in.Corte2.Valid {
		g.Corte2 = in.Corte2
	}
	if in.Corte3.Valid {
		g.Corte3 = in.Corte3
	}
	g.FinalGrade = ComputeFinal(g.Corte1, g.Corte2, g.Corte3)
	g.LastUpdated = time.Now().UTC()

	g, err = svc.repo.UpdateGradeScores(ctx, g)
	if err != nil {
		return Grade{}, err
	}

	svc.notifier.Notify(
		enr.StudentID,
		fmt.Sprintf("Nueva calificación registrada en %s", c.Name),
		notification.TypeGradeUpdate,
	)
	return g, nil
}

func (svc *service) QueryByCourse(ctx context.Context, teacher user.User, courseID string) ([]Grade, error) {
	c, err := svc.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.TeacherID != teacher.ID {
		return nil, course.ErrNotFound
	}
	return svc.repo.QueryGradesByCourse(ctx, c.ID)
}

func (svc *service) GetStudentGrade(ctx context.Context, student user.User, courseID string) (Grade, error) {
	return svc.repo.GetStudentCourseGrade(ctx, student.ID, courseID)
}

package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/user"
)

const accessCodeBytes = 8

var (
	// errors
	ErrNotFound          = errors.New("course not found")
	ErrCodeExists        = errors.New("a course with this code already exists")
	ErrNotOwner          = errors.New("not the course teacher")
	ErrNotEnrolled       = errors.New("not enrolled in this course")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string, excludedCourses []Course, exec ...core.DBExecutor) error
		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		GetCourseByAccessCode(ctx context.Context, accessCode string, exec ...core.DBExecutor) (Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]Course, error)
		// QueryCoursesByStudent resolves the student's courses via their enrollments.
		QueryCoursesByStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	EnrollmentRepository interface {
		CreateEnrollment(ctx context.Context, e Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Enrollment, error)
		EnrollmentExists(ctx context.Context, studentID, courseID string, exec ...core.DBExecutor) (bool, error)
		QueryEnrollmentsByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Enrollment, error)
		DeleteCourseEnrollments(ctx context.Context, courseID string, exec ...core.DBExecutor) error
	}

	// GradeStore is the slice of the grade layer the course service needs:
	// a paired grade row is created on enrollment and course deletion
	// cascades over grade rows. Implemented by the grade repositories.
	GradeStore interface {
		CreateEnrollmentGrade(ctx context.Context, e Enrollment, studentName string, exec ...core.DBExecutor) error
		DeleteCourseGrades(ctx context.Context, courseID string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, nc NewCourse) (Course, error)
		// Get applies the visibility rules: the owning teacher or an
		// enrolled student; others get ErrNotOwner/ErrNotEnrolled.
		Get(ctx context.Context, actor user.User, id string) (Course, error)
		// GetOwned returns the course only to its owning teacher;
		// non-owners get ErrNotFound, never a hint that the course exists.
		GetOwned(ctx context.Context, teacher user.User, id string) (Course, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		QueryByStudent(ctx context.Context, studentID string) ([]Course, error)
		Update(ctx context.Context, teacher user.User, id string, nc NewCourse) (Course, error)
		Delete(ctx context.Context, teacher user.User, id string) error
		Enroll(ctx context.Context, student user.User, accessCode string) (Course, error)
		Roster(ctx context.Context, teacher user.User, courseID string) ([]user.User, error)
	}

	service struct {
		db       core.Atomic
		repo     Repository
		enrRepo  EnrollmentRepository
		grades   GradeStore
		userRepo user.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(db core.Atomic, repo Repository, enrRepo EnrollmentRepository, grades GradeStore, userRepo user.Repository) Service {
	return &service{
		db:       db,
		repo:     repo,
		enrRepo:  enrRepo,
		grades:   grades,
		userRepo: userRepo,
	}
}

func (svc *service) checkCodeUniqueness(ctx context.Context, code string, excluded ...Course) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, code, excluded); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, teacher user.User, nc NewCourse) (Course, error) {
	if err := svc.checkCodeUniqueness(ctx, nc.Code); err != nil {
		return Course{}, err
	}

	accessCode, err := core.GenerateSecret(accessCodeBytes)
	if err != nil {
		return Course{}, errors.Wrap(err, "generating access code")
	}
	c := Course{
		Name:           nc.Name,
		Code:           nc.Code,
		Description:    nc.Description,
		TeacherID:      teacher.ID,
		AcademicPeriod: nc.AcademicPeriod,
		AccessCode:     accessCode,
		CreatedAt:      time.Now().UTC(),
	}
	return svc.repo.CreateCourse(ctx, c)
}

func (svc *service) Get(ctx context.Context, actor user.User, id string) (Course, error) {
	c, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if actor.IsTeacher() {
		if c.TeacherID != actor.ID {
			return Course{}, ErrNotOwner
		}
		return c, nil
	}

	enrolled, err := svc.enrRepo.EnrollmentExists(ctx, actor.ID, c.ID)
	if err != nil {
		return Course{}, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return Course{}, ErrNotEnrolled
	}
	return c, nil
}

func (svc *service) GetOwned(ctx context.Context, teacher user.User, id string) (Course, error) {
	c, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if c.TeacherID != teacher.ID {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Course, error) {
	return svc.repo.QueryCoursesByTeacher(ctx, teacherID)
}

func (svc *service) QueryByStudent(ctx context.Context, studentID string) ([]Course, error) {
	return svc.repo.QueryCoursesByStudent(ctx, studentID)
}

func (svc *service) Update(ctx context.Context, teacher user.User, id string, nc NewCourse) (Course, error) {
	c, err := svc.GetOwned(ctx, teacher, id)
	if err != nil {
		return Course{}, err
	}
	if nc.Code != c.Code {
		if err := svc.checkCodeUniqueness(ctx, nc.Code, c); err != nil {
			return Course{}, err
		}
	}

	c.Name = nc.Name
	c.Code = nc.Code
	c.Description = nc.Description
	c.AcademicPeriod = nc.AcademicPeriod
	return svc.repo.UpdateCourse(ctx, c)
}

// Delete cascades over the course's grades and enrollments inside a single
// transaction; a failure anywhere leaves everything in place.
func (svc *service) Delete(ctx context.Context, teacher user.User, id string) error {
	c, err := svc.GetOwned(ctx, teacher, id)
	if err != nil {
		return err
	}

	return svc.db.RunInTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.grades.DeleteCourseGrades(ctx, c.ID, exec); err != nil {
			return errors.Wrap(err, "deleting course grades")
		}
		if err := svc.enrRepo.DeleteCourseEnrollments(ctx, c.ID, exec); err != nil {
			return errors.Wrap(err, "deleting course enrollments")
		}
		return errors.Wrap(svc.repo.DeleteCourse(ctx, c.ID, exec), "deleting course")
	})
}

// Enroll redeems an access code for the student: one enrollment and its
// paired empty grade row are created atomically.
func (svc *service) Enroll(ctx context.Context, student user.User, accessCode string) (Course, error) {
	c, err := svc.repo.GetCourseByAccessCode(ctx, accessCode)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Course{}, ErrInvalidAccessCode
		}
		return Course{}, err
	}

	exists, err := svc.enrRepo.EnrollmentExists(ctx, student.ID, c.ID)
	if err != nil {
		return Course{}, errors.Wrap(err, "checking enrollment")
	}
	if exists {
		return Course{}, ErrAlreadyEnrolled
	}

	enr := Enrollment{
		StudentID:  student.ID,
		CourseID:   c.ID,
		EnrolledAt: time.Now().UTC(),
	}
	err = svc.db.RunInTx(ctx, func(exec core.DBExecutor) error {
		created, err := svc.enrRepo.CreateEnrollment(ctx, enr, exec)
		if err != nil {
			return errors.Wrap(err, "creating enrollment")
		}
		return errors.Wrap(svc.grades.CreateEnrollmentGrade(ctx, created, student.FullName, exec), "creating paired grade")
	})
	if err != nil {
		return Course{}, err
	}
	return c, nil
}

func (svc *service) Roster(ctx context.Context, teacher user.User, courseID string) ([]user.User, error) {
	c, err := svc.GetOwned(ctx, teacher, courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := svc.enrRepo.QueryEnrollmentsByCourse(ctx, c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	if len(enrollments) == 0 {
		return []user.User{}, nil
	}

	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	return svc.userRepo.GetUsersByID(ctx, ids)
}

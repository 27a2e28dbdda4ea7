package course_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/notas/core/course"
	"github.com/acadmx/notas/core/grade"
	"github.com/acadmx/notas/core/user"
	inmemdb "github.com/acadmx/notas/storage/database/inmem"
)

type fixture struct {
	svc       course.Service
	gradeRepo grade.Repository
	userRepo  user.Repository
}

func newFixture() *fixture {
	db := inmemdb.Open()
	userRepo := inmemdb.NewUserRepository(db)
	gradeRepo := inmemdb.NewGradeRepository(db)
	svc := course.NewService(
		db,
		inmemdb.NewCourseRepository(db),
		inmemdb.NewEnrollmentRepository(db),
		grade.NewGradeStore(gradeRepo),
		userRepo,
	)
	return &fixture{svc: svc, gradeRepo: gradeRepo, userRepo: userRepo}
}

func (f *fixture) createUser(t *testing.T, name string, role user.Role) user.User {
	t.Helper()
	usr, err := f.userRepo.CreateUser(context.Background(), user.User{
		FullName:  name,
		Email:     name + "@school.test",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)

	c, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, c.TeacherID)
	assert.NotEmpty(t, c.AccessCode)

	// access codes are unique per course
	c2, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Física I", Code: "FIS101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)
	assert.NotEqual(t, c.AccessCode, c2.AccessCode)

	// course codes are unique
	_, err = f.svc.Create(ctx, teacher, course.NewCourse{Name: "Copia", Code: "MAT101", AcademicPeriod: "2024-1"})
	assert.Error(t, err)
}

func TestService_Enroll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)
	student := f.createUser(t, "carlos", user.RoleStudent)

	c, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)

	got, err := f.svc.Enroll(ctx, student, c.AccessCode)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	// a paired grade row is created, snapshotting the student name
	g, err := f.gradeRepo.GetStudentCourseGrade(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "carlos", g.StudentName)
	assert.False(t, g.Corte1.Valid)
	assert.False(t, g.FinalGrade.Valid)

	_, err = f.svc.Enroll(ctx, student, c.AccessCode)
	assert.Equal(t, course.ErrAlreadyEnrolled, errors.Cause(err))

	_, err = f.svc.Enroll(ctx, student, "bogus")
	assert.Equal(t, course.ErrInvalidAccessCode, errors.Cause(err))
}

func TestService_visibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)
	other := f.createUser(t, "marta", user.RoleTeacher)
	student := f.createUser(t, "carlos", user.RoleStudent)
	outsider := f.createUser(t, "pedro", user.RoleStudent)

	c, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, student, c.AccessCode)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, teacher, c.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, student, c.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, other, c.ID)
	assert.Equal(t, course.ErrNotOwner, errors.Cause(err))
	_, err = f.svc.Get(ctx, outsider, c.ID)
	assert.Equal(t, course.ErrNotEnrolled, errors.Cause(err))

	// mutations by non-owners must not reveal the course exists
	_, err = f.svc.Update(ctx, other, c.ID, course.NewCourse{Name: "x", Code: "y", AcademicPeriod: "z"})
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))
	err = f.svc.Delete(ctx, other, c.ID)
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))
}

func TestService_Update_codeUniqueness(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)

	c1, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, teacher, course.NewCourse{Name: "Física I", Code: "FIS101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)

	// keeping its own code is fine
	got, err := f.svc.Update(ctx, teacher, c1.ID, course.NewCourse{Name: "Cálculo I B", Code: "MAT101", AcademicPeriod: "2024-2"})
	require.NoError(t, err)
	assert.Equal(t, "Cálculo I B", got.Name)
	assert.Equal(t, "2024-2", got.AcademicPeriod)

	// stealing another course's code is not
	_, err = f.svc.Update(ctx, teacher, c1.ID, course.NewCourse{Name: "Cálculo I", Code: "FIS101", AcademicPeriod: "2024-1"})
	assert.Error(t, err)
}

func TestService_Delete_cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)
	student := f.createUser(t, "carlos", user.RoleStudent)

	c, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, student, c.AccessCode)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, teacher, c.ID))

	_, err = f.svc.GetOwned(ctx, teacher, c.ID)
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))
	_, err = f.gradeRepo.GetStudentCourseGrade(ctx, student.ID, c.ID)
	assert.Equal(t, grade.ErrNotFound, errors.Cause(err))

	courses, err := f.svc.QueryByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestService_Roster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.createUser(t, "laura", user.RoleTeacher)
	s1 := f.createUser(t, "ana", user.RoleStudent)
	s2 := f.createUser(t, "carlos", user.RoleStudent)

	c, err := f.svc.Create(ctx, teacher, course.NewCourse{Name: "Cálculo I", Code: "MAT101", AcademicPeriod: "2024-1"})
	require.NoError(t, err)

	// empty roster is an empty slice, not nil
	students, err := f.svc.Roster(ctx, teacher, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)

	for _, s := range []user.User{s2, s1} {
		_, err = f.svc.Enroll(ctx, s, c.AccessCode)
		require.NoError(t, err)
	}

	students, err = f.svc.Roster(ctx, teacher, c.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "ana", students[0].FullName)
	assert.Equal(t, "carlos", students[1].FullName)
}

package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
)

type courseApi struct {
	opts *Options
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := courseApi{opts: opts}

	cg := g.Group("/courses", jwt)

	cg.POST("", api.create, teacherMiddleware())
	cg.GET("/teacher", api.queryTeacherCourses, teacherMiddleware())
	cg.GET("/student", api.queryStudentCourses, studentMiddleware())
	cg.POST("/enroll", api.enroll, studentMiddleware())

	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, teacherMiddleware())
	cg.DELETE("/:id", api.destroy, teacherMiddleware())
	cg.GET("/:id/students", api.roster, teacherMiddleware())
}

// trapCourseErr maps course sentinel errors to their HTTP equivalents.
func trapCourseErr(err error, msg string) error {
	switch errors.Cause(err) {
	case course.ErrNotFound:
		return errHttpNotFound
	case course.ErrNotOwner, course.ErrNotEnrolled:
		return errHttpForbidden
	case course.ErrInvalidAccessCode:
		return echo.NewHTTPError(http.StatusNotFound, course.ErrInvalidAccessCode.Error())
	case course.ErrAlreadyEnrolled:
		return core.NewValidationError(nil, core.FieldError{Field: "access_code", Error: course.ErrAlreadyEnrolled.Error()})
	}
	return errors.Wrap(err, msg)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.opts.CourseSvc.Create(ctx.Request().Context(), teacher, data)
	if err != nil {
		return trapCourseErr(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) queryTeacherCourses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	courses, err := api.opts.CourseSvc.QueryByTeacher(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying teacher courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryStudentCourses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	courses, err := api.opts.CourseSvc.QueryByStudent(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	var data course.EnrollCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollCourse")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	student, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.opts.CourseSvc.Enroll(ctx.Request().Context(), student, data.AccessCode)
	if err != nil {
		return trapCourseErr(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, EnrollResponse{Message: "Inscripción exitosa", Course: c})
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.opts.CourseSvc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return trapCourseErr(err, "finding course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.opts.CourseSvc.Update(ctx.Request().Context(), teacher, ctx.Param("id"), data)
	if err != nil {
		return trapCourseErr(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.opts.CourseSvc.Delete(ctx.Request().Context(), teacher, ctx.Param("id")); err != nil {
		return trapCourseErr(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) roster(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	students, err := api.opts.CourseSvc.Roster(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return trapCourseErr(err, "querying roster")
	}
	return ctx.JSON(http.StatusOK, students)
}

type EnrollResponse struct {
	Message string        `json:"message"`
	Course  course.Course `json:"course"`
}

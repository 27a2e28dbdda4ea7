package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/acadmx/notas/core/course"
	"github.com/acadmx/notas/core/grade"
)

type gradeApi struct {
	opts *Options
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := gradeApi{opts: opts}

	gg := g.Group("/grades", jwt)

	gg.POST("", api.upsert, teacherMiddleware())
	gg.GET("/course/:id", api.queryCourseGrades, teacherMiddleware())
	gg.GET("/student/course/:id", api.studentGrade, studentMiddleware())
	gg.GET("/export/:id", api.exportCourseGrades, teacherMiddleware())
}

// trapGradeErr maps grade sentinel errors to their HTTP equivalents.
func trapGradeErr(err error, msg string) error {
	switch errors.Cause(err) {
	case grade.ErrNotFound, grade.ErrEnrollmentNotFound, course.ErrNotFound:
		return errHttpNotFound
	case grade.ErrNotCourseTeacher:
		return errHttpForbidden
	}
	return errors.Wrap(err, msg)
}

// Handlers

func (api *gradeApi) upsert(ctx echo.Context) error {
	var data grade.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	g, err := api.opts.GradeSvc.Upsert(ctx.Request().Context(), teacher, data)
	if err != nil {
		return trapGradeErr(err, "saving grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) queryCourseGrades(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grades, err := api.opts.GradeSvc.QueryByCourse(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return trapGradeErr(err, "querying course grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) studentGrade(ctx echo.Context) error {
	student, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	g, err := api.opts.GradeSvc.GetStudentGrade(ctx.Request().Context(), student, ctx.Param("id"))
	if err != nil {
		return trapGradeErr(err, "finding student grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) exportCourseGrades(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.opts.CourseSvc.GetOwned(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return trapCourseErr(err, "finding course")
	}
	grades, err := api.opts.GradeSvc.QueryByCourse(ctx.Request().Context(), teacher, c.ID)
	if err != nil {
		return trapGradeErr(err, "querying course grades")
	}

	data, err := api.opts.ReportSvc.RenderCourseReport(grade.ReportCourse{
		Name:           c.Name,
		Code:           c.Code,
		AcademicPeriod: c.AcademicPeriod,
	}, grades)
	if err != nil {
		return errors.Wrap(err, "rendering report")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=calificaciones_%s.pdf", c.Code))
	return ctx.Blob(http.StatusOK, "application/pdf", data)
}

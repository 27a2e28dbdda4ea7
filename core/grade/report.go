package grade

// ReportCourse is the course header data a report needs.
type ReportCourse struct {
	Name           string
	Code           string
	AcademicPeriod string
}

// ReportRenderer produces the binary grade report for a course. Render
// failures are returned to the caller, never retried.
type ReportRenderer interface {
	RenderCourseReport(c ReportCourse, grades []Grade) ([]byte, error)
}

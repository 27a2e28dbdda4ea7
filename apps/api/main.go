package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/acadmx/notas/api/echo"
	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
	"github.com/acadmx/notas/core/grade"
	"github.com/acadmx/notas/core/notification"
	"github.com/acadmx/notas/core/user"
	emailsvc "github.com/acadmx/notas/services/email"
	logsvc "github.com/acadmx/notas/services/logger"
	reportsvc "github.com/acadmx/notas/services/report"
	"github.com/acadmx/notas/storage/database"
	sqlxrepos "github.com/acadmx/notas/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()
	if err = database.Ping(db); err != nil {
		logger.Fatal("pinging database", err)
	}

	// set up validation
	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	userRepo := sqlxrepos.NewUserRepository(db)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	enrRepo := sqlxrepos.NewEnrollmentRepository(db)
	gradeRepo := sqlxrepos.NewGradeRepository(db)
	notifRepo := sqlxrepos.NewNotificationRepository(db)

	userSvc := user.NewService(userRepo, mailSvc, conf)
	courseSvc := course.NewService(database.NewAtomic(db), courseRepo, enrRepo, grade.NewGradeStore(gradeRepo), userRepo)
	gradeSvc := grade.NewService(gradeRepo, courseRepo, enrRepo, notification.NewDispatcher(notifRepo, logger))
	notifSvc := notification.NewService(notifRepo)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:            conf.Server.Address(),
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		UserSvc:         userSvc,
		CourseSvc:       courseSvc,
		GradeSvc:        gradeSvc,
		NotificationSvc: notifSvc,
		ReportSvc:       reportsvc.NewPDFService(),
	})
	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", err)
	}
}

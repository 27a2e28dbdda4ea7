package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/acadmx/notas/core"
	"github.com/acadmx/notas/core/course"
	"github.com/acadmx/notas/core/grade"
	"github.com/acadmx/notas/core/notification"
	"github.com/acadmx/notas/core/user"
	emailsvc "github.com/acadmx/notas/services/email"
	reportsvc "github.com/acadmx/notas/services/report"
	inmemdb "github.com/acadmx/notas/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testEnv struct {
	server Server
	conf   *core.Config

	userSvc   user.Service
	courseSvc course.Service
	gradeSvc  grade.Service
	notifSvc  notification.Service
}

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:             true,
		AppName:              "Notas",
		SecretKey:            "secret",
		FrontendBaseURL:      "http://localhost:3000",
		DefaultFromEmail:     mail.Address{Address: "noreply@localhost"},
		CORSOrigins:          []string{"*"},
		PasswordResetTimeout: time.Hour,
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               "8000",
			JWTExpirationDelta: 10 * time.Minute,
			ShutdownTimeout:    time.Second,
		},
	}
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	conf := newTestConfig()

	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	db := inmemdb.Open()
	userRepo := inmemdb.NewUserRepository(db)
	courseRepo := inmemdb.NewCourseRepository(db)
	enrRepo := inmemdb.NewEnrollmentRepository(db)
	gradeRepo := inmemdb.NewGradeRepository(db)
	notifRepo := inmemdb.NewNotificationRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	userSvc := user.NewServiceMock(userRepo, mailSvc, conf)
	courseSvc := course.NewService(db, courseRepo, enrRepo, grade.NewGradeStore(gradeRepo), userRepo)
	gradeSvc := grade.NewService(gradeRepo, courseRepo, enrRepo, notification.NewDispatcherMock(notifRepo))
	notifSvc := notification.NewService(notifRepo)

	srv := NewServer(&Options{
		Addr:            ":0",
		Conf:            conf,
		Logger:          nopLogger{},
		Validate:        validate,
		Translator:      translator,
		DisableReqLogs:  true,
		UserSvc:         userSvc,
		CourseSvc:       courseSvc,
		GradeSvc:        gradeSvc,
		NotificationSvc: notifSvc,
		ReportSvc:       reportsvc.NewPDFService(),
	})

	return &testEnv{
		server:    srv,
		conf:      conf,
		userSvc:   userSvc,
		courseSvc: courseSvc,
		gradeSvc:  gradeSvc,
		notifSvc:  notifSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, fullName, email string, role user.Role) user.User {
	t.Helper()
	usr, err := env.userSvc.Register(context.Background(), user.NewUser{
		FullName: fullName,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

const testPassword = "G0od.Pa55word!"

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/memory"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/application/validation"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type ProfileHandlerTestSuite struct {
	suite.Suite
	Router *gin.Engine
	store  *memory.Store
	jwtSvc *auth.JWTService
	owner  *user.User
	token  string
}

func TestProfileHandler(t *testing.T) {
	suite.Run(t, new(ProfileHandlerTestSuite))
}

func (s *ProfileHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	appLogger := logger.NewNop()

	s.store = memory.NewStore()
	s.owner = &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Avatar: "//avatar"}
	s.Require().NoError(s.store.Users().Create(context.Background(), s.owner))

	s.jwtSvc = auth.NewJWTService("test-secret", time.Hour)
	token, err := s.jwtSvc.GenerateToken(s.owner.ID)
	s.Require().NoError(err)
	s.token = token

	uc := profileUC.NewProfileUseCase(
		s.store.Profiles(),
		memory.NewTxManager(s.store),
		memory.NewProfileCache(),
		memory.NewEventSink(),
		appLogger,
		3,
	)
	s.Router = NewRouter(RouterConfig{
		ProfileHandler: NewProfileHandler(uc, validation.NewGate(), appLogger),
		JWTService:     s.jwtSvc,
		Logger:         appLogger,
		RequestTimeout: 5 * time.Second,
	})
}

func (s *ProfileHandlerTestSuite) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *ProfileHandlerTestSuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *ProfileHandlerTestSuite) createProfile() ProfileDTO {
	rr := s.do(http.MethodPost, "/api/profile", gin.H{
		"status":  "Developer",
		"skills":  "go, sql , ,docker",
		"company": "Acme",
		"twitter": "@ada",
	}, true)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var dto ProfileDTO
	s.decode(rr, &dto)
	return dto
}

func (s *ProfileHandlerTestSuite) Test_Health() {
	rr := s.do(http.MethodGet, "/api/health", nil, false)
	s.Equal(http.StatusOK, rr.Code)
	s.NotEmpty(rr.Header().Get(HeaderRequestID))
}

func (s *ProfileHandlerTestSuite) Test_Auth_Required() {
	rr := s.do(http.MethodGet, "/api/profile/me", nil, false)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.JSONEq(`{"msg":"No token, authorization denied"}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.JSONEq(`{"msg":"Token is not valid"}`, rr.Body.String())
}

func (s *ProfileHandlerTestSuite) Test_Auth_LegacyHeader() {
	s.createProfile()

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set(HeaderAuthToken, s.token)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *ProfileHandlerTestSuite) Test_GetMe_NoProfile() {
	rr := s.do(http.MethodGet, "/api/profile/me", nil, true)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"msg":"There is no profile for this user"}`, rr.Body.String())
}

func (s *ProfileHandlerTestSuite) Test_Upsert_ValidationErrors() {
	rr := s.do(http.MethodPost, "/api/profile", gin.H{"bio": "hi"}, true)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[
		{"param":"status","msg":"Status is Required"},
		{"param":"skills","msg":"Skills is Required"}
	]}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", nil, true)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Contains(rr.Body.String(), `"errors"`)
}

func (s *ProfileHandlerTestSuite) Test_Upsert_CreateThenUpdate() {
	created := s.createProfile()
	s.Equal(s.owner.ID, created.User.ID)
	s.Equal([]string{"go", "sql", "docker"}, created.Skills)
	s.Equal("@ada", created.Social.Twitter)
	s.Empty(created.Experience)

	rr := s.do(http.MethodPost, "/api/profile", gin.H{"status": "Lead", "skills": "rust"}, true)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/profile/me", nil, true)
	s.Require().Equal(http.StatusOK, rr.Code)
	var me ProfileDTO
	s.decode(rr, &me)
	s.Equal(created.ID, me.ID)
	s.Equal("Lead", me.Status)
	s.Equal("Acme", me.Company)
	s.Equal([]string{"rust"}, me.Skills)
	s.Equal("Ada", me.User.Name)
	s.Equal("//avatar", me.User.Avatar)
}

func (s *ProfileHandlerTestSuite) Test_PublicReads() {
	s.createProfile()

	rr := s.do(http.MethodGet, "/api/profile", nil, false)
	s.Require().Equal(http.StatusOK, rr.Code)
	var all []ProfileDTO
	s.decode(rr, &all)
	s.Len(all, 1)

	rr = s.do(http.MethodGet, "/api/profile/user/"+s.owner.ID.String(), nil, false)
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/profile/user/"+uuid.NewString(), nil, false)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"msg":"There is no profile for this user"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/profile/user/12345", nil, false)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"msg":"There is no profile for this user"}`, rr.Body.String())
}

func (s *ProfileHandlerTestSuite) Test_Experience_AddAndRemove() {
	rr := s.do(http.MethodPut, "/api/profile/experience", gin.H{
		"title": "Engineer", "company": "Acme", "from": "2020-01-01",
	}, true)
	s.Equal(http.StatusBadRequest, rr.Code, "no profile yet")
	s.JSONEq(`{"msg":"There is no profile for this user"}`, rr.Body.String())

	s.createProfile()

	rr = s.do(http.MethodPut, "/api/profile/experience", gin.H{"title": "Engineer"}, true)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[
		{"param":"company","msg":"Company is required"},
		{"param":"from","msg":"From date is required"}
	]}`, rr.Body.String())

	rr = s.do(http.MethodPut, "/api/profile/experience", gin.H{
		"title": "Junior", "company": "A", "from": "2018-01-01", "to": "2019-12-31",
	}, true)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	rr = s.do(http.MethodPut, "/api/profile/experience", gin.H{
		"title": "Senior", "company": "B", "from": "2020-01-01", "current": true,
	}, true)
	s.Require().Equal(http.StatusOK, rr.Code)

	var p ProfileDTO
	s.decode(rr, &p)
	s.Require().Len(p.Experience, 2)
	s.Equal("Senior", p.Experience[0].Title)
	s.True(p.Experience[0].Current)
	s.Require().NotNil(p.Experience[1].To)
	s.Equal(2019, p.Experience[1].To.Year())

	rr = s.do(http.MethodDelete, "/api/profile/experience/not-an-id", nil, true)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &p)
	s.Len(p.Experience, 2)

	rr = s.do(http.MethodDelete, "/api/profile/experience/"+p.Experience[1].ID.String(), nil, true)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &p)
	s.Require().Len(p.Experience, 1)
	s.Equal("Senior", p.Experience[0].Title)
}

func (s *ProfileHandlerTestSuite) Test_Education_AddAndRemove() {
	s.createProfile()

	rr := s.do(http.MethodPut, "/api/profile/education", gin.H{
		"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2012-09-01T00:00:00Z",
	}, true)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var p ProfileDTO
	s.decode(rr, &p)
	s.Require().Len(p.Education, 1)

	rr = s.do(http.MethodDelete, "/api/profile/education/"+p.Education[0].ID.String(), nil, true)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &p)
	s.NotNil(p.Education)
	s.Empty(p.Education)
}

func (s *ProfileHandlerTestSuite) Test_DeleteAccount() {
	s.createProfile()

	rr := s.do(http.MethodDelete, "/api/profile", nil, true)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"msg":"User Removed"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/profile/user/"+s.owner.ID.String(), nil, false)
	s.Equal(http.StatusBadRequest, rr.Code)

	_, err := s.store.Users().FindByID(context.Background(), s.owner.ID)
	s.ErrorIs(err, user.ErrUserNotFound)

	rr = s.do(http.MethodDelete, "/api/profile", nil, true)
	s.Equal(http.StatusOK, rr.Code, "repeat delete succeeds")
}

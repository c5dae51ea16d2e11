package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"overtime-approval/cache"
	"overtime-approval/events"
	"overtime-approval/handlers/response"
	"overtime-approval/middleware"
	"overtime-approval/models"
	"overtime-approval/notify"
	"overtime-approval/repository/memory"
	"overtime-approval/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
	session *middleware.Session

	regularID  string
	archivedID string
}

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	c, err := cache.New(16)
	require.NoError(t, err)

	repos := services.Repositories{
		Profiles:    store.Profiles(),
		Categories:  store.Categories(),
		Submissions: store.Submissions(),
	}
	svc := services.New(repos, c, &events.Recorder{}, &notify.Outbox{})
	session := middleware.NewSession(testSecret, time.Hour, false, svc.Session)

	seed := func(p models.Profile, roles ...models.AppRole) {
		require.NoError(t, repos.Profiles.Create(ctx, &p))
		if len(roles) > 0 {
			require.NoError(t, repos.Profiles.ReplaceRoles(ctx, p.ID, roles))
		}
	}
	seed(models.Profile{NIK: "9001", FullName: "Ani Admin", LineArea: "Office", Role: models.RoleAdmin})
	seed(models.Profile{NIK: "3001", FullName: "Maman", LineArea: "Office", Role: models.RoleOperator}, models.AppRoleManager)
	seed(models.Profile{NIK: "2001", FullName: "Lina", LineArea: "Line A", Role: models.RoleLeader})
	seed(models.Profile{NIK: "1001", FullName: "Budi", LineArea: "Line A", Role: models.RoleOperator,
		Approver1NIK: strPtr("2001"), Approver2NIK: strPtr("3001")})

	regular := &models.OvertimeCategory{Name: "Regular", StartTime: models.MustParseClock("17:00"), EndTime: models.MustParseClock("19:00"), IsActive: true}
	archived := &models.OvertimeCategory{Name: "Archived", StartTime: models.MustParseClock("08:00"), EndTime: models.MustParseClock("17:00"), IsActive: false}
	require.NoError(t, repos.Categories.Create(ctx, regular))
	require.NoError(t, repos.Categories.Create(ctx, archived))

	return &testServer{
		t:          t,
		handler:    NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}}, svc, session),
		store:      store,
		session:    session,
		regularID:  regular.ID,
		archivedID: archived.ID,
	}
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(nik string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"nik": nik})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var data LoginResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"nik": "  1001 "})
	require.Equal(t, http.StatusOK, rec.Code)

	var data LoginResponse
	decodeData(t, env, &data)
	assert.Equal(t, "1001", data.NIK)
	assert.Equal(t, "Budi", data.Profile.FullName)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestLogin_UnknownNIK(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"nik": "0000"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NIK not found", env.Error.Message)

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"nik": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/api/v1/overtime/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/overtime/my", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token for a profile that has since been deleted
	token, _, err := s.session.GenerateToken(&models.Profile{NIK: "7777"})
	require.NoError(t, err)
	rec, _ = s.do(http.MethodGet, "/api/v1/overtime/my", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a token signed with another secret
	other := middleware.NewSession("another-secret", time.Hour, false, nil)
	forged, _, err := other.GenerateToken(&models.Profile{NIK: "9001"})
	require.NoError(t, err)
	rec, _ = s.do(http.MethodGet, "/api/v1/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDurationPreview(t *testing.T) {
	s := newTestServer(t)
	token := s.login("1001")

	rec, env := s.do(http.MethodGet, "/api/v1/overtime/duration?start=22:00&end=06:00", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data DurationResponse
	decodeData(t, env, &data)
	assert.Equal(t, 8.0, data.TotalHours)

	rec, env = s.do(http.MethodGet, "/api/v1/overtime/duration?start=xx&end=06:00", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "start")
}

func TestCategoriesForForm(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/api/v1/categories", s.login("1001"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []models.OvertimeCategory
	decodeData(t, env, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "Regular", categories[0].Name)

	rec, env = s.do(http.MethodGet, "/api/v1/admin/categories", s.login("9001"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, env, &categories)
	assert.Len(t, categories, 2)
}

func TestSubmitAndApproveFlow(t *testing.T) {
	s := newTestServer(t)
	employee := s.login("1001")
	leader := s.login("2001")
	manager := s.login("3001")

	rec, env := s.do(http.MethodPost, "/api/v1/overtime", employee, services.SubmitOvertimeRequest{
		SubmissionDate: "2025-03-03",
		CategoryID:     s.regularID,
		EndTime:        "21:15",
		JobDescription: "Machine setup",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub models.OvertimeSubmission
	decodeData(t, env, &sub)
	assert.Equal(t, models.StatusPending, sub.Status)
	assert.Equal(t, 4.25, sub.TotalHours)
	require.NotNil(t, sub.Approver1NIK)
	assert.Equal(t, "2001", *sub.Approver1NIK)

	// manager is approver 2 and must wait for stage 1
	rec, _ = s.do(http.MethodPost, "/api/v1/approvals/"+sub.ID+"/approve", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/approvals", leader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []models.OvertimeSubmission
	decodeData(t, env, &inbox)
	require.Len(t, inbox, 1)

	rec, _ = s.do(http.MethodPost, "/api/v1/approvals/"+sub.ID+"/approve", leader, services.DecisionRequest{Comments: "ok"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/approvals/"+sub.ID+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, env, &sub)
	assert.Equal(t, models.StatusApprovedLevel2, sub.Status)

	rec, _ = s.do(http.MethodPost, "/api/v1/approvals/"+sub.ID+"/reject", manager, services.DecisionRequest{Comments: "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/overtime/"+sub.ID, employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail services.SubmissionDetail
	decodeData(t, env, &detail)
	assert.Len(t, detail.History, 2)

	rec, env = s.do(http.MethodGet, "/api/v1/overtime/my?status=approved_level2", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []models.OvertimeSubmission
	decodeData(t, env, &mine)
	assert.Len(t, mine, 1)
}

func TestSubmit_InactiveCategory(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/overtime", s.login("1001"), services.SubmitOvertimeRequest{
		CategoryID:     s.archivedID,
		JobDescription: "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "category_id")
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	operator := s.login("1001")
	leader := s.login("2001")
	manager := s.login("3001")

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/api/v1/admin/profiles", operator, http.StatusForbidden},
		{"/api/v1/admin/profiles", manager, http.StatusForbidden},
		{"/api/v1/monitoring/summary?month=3&year=2025", operator, http.StatusForbidden},
		{"/api/v1/monitoring/summary?month=3&year=2025", leader, http.StatusOK},
		{"/api/v1/reports/overtime.csv?month=3&year=2025", leader, http.StatusForbidden},
		{"/api/v1/reports/overtime.csv?month=3&year=2025", manager, http.StatusOK},
	}
	for _, tc := range cases {
		rec, _ := s.do(http.MethodGet, tc.path, tc.token, nil)
		assert.Equal(t, tc.status, rec.Code, tc.path)
	}
}

func TestExports(t *testing.T) {
	s := newTestServer(t)
	manager := s.login("3001")

	rec, _ := s.do(http.MethodGet, "/api/v1/reports/overtime.csv?month=3&year=2025", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "overtime_2025_03.csv")
	assert.Contains(t, rec.Body.String(), "NIK,Employee")

	rec, _ = s.do(http.MethodGet, "/api/v1/reports/overtime.xlsx?month=3&year=2025", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "overtime_2025_03.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec, env := s.do(http.MethodGet, "/api/v1/reports/overtime.csv?month=abc&year=2025", manager, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "month")
}

func TestAdminProfileCRUD(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("9001")

	rec, env := s.do(http.MethodPost, "/api/v1/admin/profiles", admin, services.ProfileRequest{
		NIK: "5001", FullName: "Eka", LineArea: "Line B", Role: models.RoleLeader, IsAdmin: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Profile
	decodeData(t, env, &created)
	require.Len(t, created.AppRoles, 1)

	rec, _ = s.do(http.MethodPost, "/api/v1/admin/profiles", admin, services.ProfileRequest{
		NIK: "5001", FullName: "Dup", LineArea: "Line B",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// elevated app role admits the new profile to admin routes
	rec, _ = s.do(http.MethodGet, "/api/v1/admin/profiles", s.login("5001"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPut, "/api/v1/admin/profiles/"+created.ID, admin, services.ProfileRequest{
		NIK: "5001", FullName: "Eka Putri", LineArea: "Line B", Role: models.RoleLeader,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Profile
	decodeData(t, env, &updated)
	assert.Equal(t, "Eka Putri", updated.FullName)
	assert.Empty(t, updated.AppRoles)

	rec, _ = s.do(http.MethodDelete, "/api/v1/admin/profiles/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(http.MethodDelete, "/api/v1/admin/profiles/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Profile not found", env.Error.Message)

	rec, env = s.do(http.MethodGet, "/api/v1/admin/profiles", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []models.Profile
	decodeData(t, env, &profiles)
	assert.Len(t, profiles, 4)
}

func TestAdminCategoryToggle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("9001")
	employee := s.login("1001")

	active := true
	rec, _ := s.do(http.MethodPut, "/api/v1/admin/categories/"+s.archivedID, admin, services.CategoryRequest{
		Name: "Archived", StartTime: "08:00", EndTime: "17:00", IsActive: &active,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/categories", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []models.OvertimeCategory
	decodeData(t, env, &categories)
	assert.Len(t, categories, 2)

	rec, env = s.do(http.MethodPost, "/api/v1/admin/categories", admin, services.CategoryRequest{Name: "Bad", StartTime: "8", EndTime: "17:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "start_time")
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{nik"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

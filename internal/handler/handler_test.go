package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/users-admin/internal/handler"
	"github.com/maxviazov/users-admin/internal/httpclient"
	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/repository"
	"github.com/maxviazov/users-admin/internal/repository/remote"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/upstreamtest"
	"github.com/maxviazov/users-admin/pkg/response"
)

const allowedOrigin = "https://admin.example.com"

func newApp(t *testing.T, users ...model.User) (*gin.Engine, *upstreamtest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := upstreamtest.New(users...)
	t.Cleanup(up.Close)

	client := httpclient.New(httpclient.Config{BaseURL: up.BaseURL()}, httpclient.WithNotifier(notify.ContextInbox{}))
	svc := service.NewUserService(remote.NewUserRepository(client), zerolog.Nop())

	r := gin.New()
	handler.Register(r, handler.Deps{
		Users:          svc,
		Pinger:         remote.NewPinger(client),
		AllowedOrigins: []string{allowedOrigin},
		Logger:         zerolog.Nop(),
	})
	return r, up
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestListPage_FirstPage(t *testing.T) {
	r, up := newApp(t, model.User{ID: 1, FirstName: "George", LastName: "Bluth", Email: "george@example.com"})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.Contains(t, body, "George")
	assert.Contains(t, body, "1 records")
	assert.Equal(t, 1, strings.Count(body, `class="row"`))
	assert.Equal(t, 1, strings.Count(body, `class="select"`))

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Query.Get("page"))
	assert.Equal(t, "10", reqs[0].Query.Get("per_page"))
}

func TestListPage_PageAndSizeFromQuery(t *testing.T) {
	r, up := newApp(t, upstreamtest.Users(40)...)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users?page=2&page_size=15", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 15, strings.Count(w.Body.String(), `class="row"`))
	assert.Contains(t, w.Body.String(), "First16")

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "2", reqs[0].Query.Get("page"))
	assert.Equal(t, "15", reqs[0].Query.Get("per_page"))
}

func TestListPage_RejectsUnknownPageSize(t *testing.T) {
	r, up := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users?page_size=7", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, up.Requests())
}

func TestListPage_UpstreamFailureShowsOneNotification(t *testing.T) {
	r, up := newApp(t, upstreamtest.Users(3)...)
	up.FailWith(http.StatusInternalServerError)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="notification"`))
	assert.Contains(t, body, "request failed with status code 500")
	assert.Contains(t, body, "No records")
}

func TestSelectRow_RedirectsToEditPage(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, postForm(handler.SelectPath, url.Values{"page": {"1"}, "page_size": {"10"}, "row": {"1"}, "id": {"2"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/examples/users/2", w.Header().Get("Location"))
}

func TestSelectRow_MissingID(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, postForm(handler.SelectPath, url.Values{"row": {"0"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// shiftingUsers drops the first record after every list call, like an upstream delete
// landing between rendering the page and clicking a row.
type shiftingUsers struct {
	service.UserService
	pages [][]model.User
	calls int
}

func (s *shiftingUsers) ListUsers(context.Context, repository.Page) (repository.PageResult[model.User], error) {
	page := s.pages[min(s.calls, len(s.pages)-1)]
	s.calls++
	return repository.PageResult[model.User]{Data: page, Total: len(page)}, nil
}

func TestSelectRow_PageChangedSinceRender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := &shiftingUsers{pages: [][]model.User{{{ID: 1}, {ID: 2}}, {{ID: 2}}}}
	r := gin.New()
	handler.Register(r, handler.Deps{Users: users, Logger: zerolog.Nop()})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="id" value="1"`)

	w = serve(r, postForm(handler.SelectPath, url.Values{"row": {"0"}, "id": {"1"}}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, 2, users.calls)
}

func TestSelectRow_OutOfRange(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, postForm(handler.SelectPath, url.Values{"row": {"9"}, "id": {"1"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditPage_RendersRecord(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="First2"`)
	assert.Contains(t, w.Body.String(), `action="/examples/users/2"`)
}

func TestEditPage_MalformedParamFailsFast(t *testing.T) {
	r, up := newApp(t, upstreamtest.Users(3)...)

	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
	assert.Empty(t, up.Requests())
}

func TestEditPage_NotFound(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/examples/users/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `class="notification"`))
}

func TestEditPage_SaveRedirectsToList(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(3)...)

	form := url.Values{"first_name": {"Lindsay"}, "last_name": {"Funke"}, "email": {"Lindsay@Example.com"}}
	w := serve(r, postForm("/examples/users/2", form))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/examples/users", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/users/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Lindsay", got.FirstName)
	assert.Equal(t, "lindsay@example.com", got.Email)
}

func TestEditPage_InvalidSubmissionKeepsValues(t *testing.T) {
	r, up := newApp(t, upstreamtest.Users(3)...)

	form := url.Values{"first_name": {"Buster"}, "last_name": {""}, "email": {"not-an-email"}}
	w := serve(r, postForm("/examples/users/2", form))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Contains(t, body, "must be a valid email address")
	assert.Contains(t, body, "must not be empty")

	for _, req := range up.Requests() {
		assert.NotEqual(t, http.MethodPut, req.Method)
	}
}

func TestAPI_ListUsers(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(12)...)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Table struct {
			Records      []model.User `json:"records"`
			TotalRecords *int         `json:"total_records"`
			Page         int          `json:"page"`
		} `json:"table"`
		Notifications []notify.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Table.Records, 2)
	require.NotNil(t, got.Table.TotalRecords)
	assert.Equal(t, 12, *got.Table.TotalRecords)
	assert.Equal(t, 2, got.Table.Page)
	assert.NotNil(t, got.Notifications)
	assert.Empty(t, got.Notifications)
}

func TestAPI_UpstreamFailure(t *testing.T) {
	r, up := newApp(t)
	up.FailWith(http.StatusServiceUnavailable)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)

	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "upstream_error", payload.Error)
	require.Len(t, payload.Notifications, 1)
	assert.Equal(t, notify.TitleError, payload.Notifications[0].Title)
}

func TestAPI_UpdateUser(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(2)...)

	body := `{"first_name":"Maeby","last_name":"Funke","email":"maeby@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.User{ID: 1, FirstName: "Maeby", LastName: "Funke", Email: "maeby@example.com"}, got)
}

func TestAPI_UpdateUserErrors(t *testing.T) {
	r, _ := newApp(t, upstreamtest.Users(2)...)

	cases := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", "/api/v1/users/1", `{"first_name":`, http.StatusBadRequest, "invalid_input"},
		{"validation", "/api/v1/users/1", `{"first_name":"","last_name":"x","email":"x@example.com"}`, http.StatusBadRequest, "invalid_input"},
		{"bad id", "/api/v1/users/abc", `{}`, http.StatusBadRequest, "invalid_params"},
		{"unknown id", "/api/v1/users/50", `{"first_name":"a","last_name":"b","email":"c@example.com"}`, http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := serve(r, req)
			require.Equal(t, tc.wantCode, w.Code, w.Body.String())

			var payload response.ErrorPayload
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			assert.Equal(t, tc.wantErr, payload.Error)
		})
	}
}

func TestDocs(t *testing.T) {
	r, _ := newApp(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/users/{userId}")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

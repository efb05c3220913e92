// Package upstreamtest runs an in-process users API with the same wire format as the real
// upstream, for tests of everything that sits in front of it.
package upstreamtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/repository"
)

// BasePath is where the fake mounts the API; clients use URL()+BasePath as base URL.
const BasePath = "/api"

const defaultPerPage = 6

// RecordedRequest is what the fake saw for one call.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
}

type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	users    []model.User
	failWith int
	requests []RecordedRequest
}

// New starts a fake seeded with users, kept in the given order.
func New(users ...model.User) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{users: append([]model.User(nil), users...)}

	r := gin.New()
	r.Use(s.record)
	api := r.Group(BasePath)
	{
		api.GET("/users", s.list)
		api.GET("/users/:id", s.get)
		api.PUT("/users/:id", s.update)
	}
	s.srv = httptest.NewServer(r)
	return s
}

// BaseURL is the value to configure as the upstream base URL.
func (s *Server) BaseURL() string { return s.srv.URL + BasePath }

func (s *Server) Close() { s.srv.Close() }

// FailWith makes every following request answer with status; 0 restores normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Add appends a user and returns it with its id assigned when ID is 0.
func (s *Server) Add(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = int64(len(s.users) + 1)
	}
	s.users = append(s.users, u)
	return u
}

// Users generates n sample users with ids 1..n.
func Users(n int) []model.User {
	out := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.User{
			ID:        int64(i),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Avatar:    fmt.Sprintf("https://example.com/avatars/%d.png", i),
		})
	}
	return out
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
	})
	status := s.failWith
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	s.mu.Lock()
	total := len(s.users)
	data := []model.User{}
	if from := (repository.Page{Number: page, Size: perPage}).Offset(); from < total {
		to := min(from+perPage, total)
		data = append(data, s.users[from:to]...)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": (total + perPage - 1) / perPage,
		"data":        data,
	})
}

func (s *Server) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			c.JSON(http.StatusOK, u)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{})
}

func (s *Server) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	var up model.UserUpdate
	if err := c.ShouldBindJSON(&up); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users[i] = up.Apply(u)
			c.JSON(http.StatusOK, s.users[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{})
}

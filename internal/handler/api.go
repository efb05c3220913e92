package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
	"github.com/maxviazov/users-admin/pkg/response"
)

// UserAPI is the JSON mirror of the admin pages.
type UserAPI struct {
	users service.UserService
	sizes []int
}

func NewUserAPI(users service.UserService, sizes []int) *UserAPI {
	return &UserAPI{users: users, sizes: sizes}
}

func (a *UserAPI) Register(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.GET("", a.list)
		g.GET("/:"+view.ParamUserID, a.get)
		g.PUT("/:"+view.ParamUserID, a.update)
	}
}

type listResponse struct {
	Table         view.Table            `json:"table"`
	Notifications []notify.Notification `json:"notifications"`
}

func (a *UserAPI) list(c *gin.Context) {
	v, err := openListView(c.Request.Context(), a.users, a.sizes, c.Query, nil)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	notifications := inboxItems(c)
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	response.WriteData(c, http.StatusOK, listResponse{Table: v.Table(), Notifications: notifications})
}

func (a *UserAPI) get(c *gin.Context) {
	v, err := openEditView(c.Request.Context(), a.users, routeParams(c), nil)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, v.User())
}

func (a *UserAPI) update(c *gin.Context) {
	var up model.UserUpdate
	if err := c.ShouldBindJSON(&up); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parse details stay internal
		return
	}
	v, err := openEditView(c.Request.Context(), a.users, routeParams(c), nil)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	saved, err := v.Save(c.Request.Context(), a.users, up)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, saved)
}

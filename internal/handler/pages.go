package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
	"github.com/maxviazov/users-admin/pkg/response"
)

// Pages serves the server-rendered admin pages.
type Pages struct {
	users service.UserService
	sizes []int
}

func NewPages(users service.UserService, sizes []int) *Pages {
	return &Pages{users: users, sizes: sizes}
}

func (p *Pages) Register(r gin.IRoutes) {
	r.GET(view.ListPath, p.list)
	r.POST(SelectPath, p.selectRow)
	r.GET(view.EditRoute, p.edit)
	r.POST(view.EditRoute, p.save)
}

type listPage struct {
	Table         view.Table
	SelectPath    string
	Notifications []notify.Notification
	Error         string
}

type editPage struct {
	User          model.User
	Form          model.UserUpdate
	Action        string
	BackPath      string
	FieldErrors   map[string]string
	Notifications []notify.Notification
	Error         string
}

type errorPage struct {
	Status        int
	StatusText    string
	Message       string
	BackPath      string
	Notifications []notify.Notification
}

func (p *Pages) list(c *gin.Context) {
	v, err := openListView(c.Request.Context(), p.users, p.sizes, c.Query, nil)
	page := listPage{Table: v.Table(), SelectPath: SelectPath}
	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		var payload response.ErrorPayload
		status, payload = response.MapError(err)
		page.Error = payload.Error
	}
	page.Notifications = inboxItems(c)
	c.HTML(status, "list.html", page)
}

// selectRow replays the list state the click was made on and follows the row to its edit page.
// The posted id must still sit at the posted row, so a page that changed upstream never opens another user.
func (p *Pages) selectRow(c *gin.Context) {
	var target string
	v, err := openListView(c.Request.Context(), p.users, p.sizes, c.PostForm, func(u model.User) {
		target = view.EditPath(view.UserParams{UserID: u.ID})
	})
	if err != nil {
		p.renderError(c, err)
		return
	}
	row, err := strconv.Atoi(c.PostForm(paramRow))
	if err != nil {
		row = -1
	}
	id, err := strconv.ParseInt(c.PostForm(paramID), 10, 64)
	if err != nil {
		p.renderError(c, &view.ParamError{Param: paramID, Value: c.PostForm(paramID), Err: err})
		return
	}
	if err := v.SelectRecord(row, id); err != nil {
		p.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (p *Pages) edit(c *gin.Context) {
	v, err := openEditView(c.Request.Context(), p.users, routeParams(c), nil)
	if err != nil {
		p.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit.html", p.editPage(c, v, nil))
}

func (p *Pages) save(c *gin.Context) {
	var target string
	v, err := openEditView(c.Request.Context(), p.users, routeParams(c), func(path string) { target = path })
	if err != nil {
		p.renderError(c, err)
		return
	}

	var up model.UserUpdate
	if err := c.ShouldBind(&up); err != nil {
		p.renderError(c, service.ErrInvalidInput)
		return
	}
	if _, err := v.Save(c.Request.Context(), p.users, up); err != nil {
		_ = c.Error(err)
		status, _ := response.MapError(err)
		c.HTML(status, "edit.html", p.editPage(c, v, err))
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (p *Pages) editPage(c *gin.Context, v *view.EditView, err error) editPage {
	page := editPage{
		User:          v.User(),
		Form:          v.Form(),
		Action:        view.EditPath(v.Params()),
		BackPath:      view.ListPath,
		Notifications: inboxItems(c),
	}
	if err != nil {
		_, payload := response.MapError(err)
		page.Error = payload.Error
		if fe := service.FieldErrors(err); len(fe) > 0 {
			page.FieldErrors = make(map[string]string, len(fe))
			for _, f := range fe {
				page.FieldErrors[f.Field] = f.Message
			}
		}
	}
	return page
}

func (p *Pages) renderError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, payload := response.MapError(err)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	c.HTML(status, "error.html", errorPage{
		Status:        status,
		StatusText:    http.StatusText(status),
		Message:       msg,
		BackPath:      view.ListPath,
		Notifications: inboxItems(c),
	})
}

func inboxItems(c *gin.Context) []notify.Notification {
	return notify.InboxFrom(c.Request.Context()).Items()
}

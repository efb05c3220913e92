package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Users  service.UserService
	Pinger Pinger
	// PageSizes offered by the list page; view.DefaultPageSizes when empty.
	PageSizes      []int
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	if len(d.PageSizes) == 0 {
		d.PageSizes = view.DefaultPageSizes
	}
	h := NewHealthHandler(d.Pinger)

	r.Use(RequestID(), RequestLogger(d.Logger), NotificationInbox(), CORS(APIV1Prefix, d.AllowedOrigins))
	r.SetHTMLTemplate(pageTemplates)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	NewPages(d.Users, d.PageSizes).Register(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewUserAPI(d.Users, d.PageSizes).Register(api)
	}
}

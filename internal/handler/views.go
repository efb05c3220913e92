package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
)

const (
	paramPage     = "page"
	paramPageSize = "page_size"
	paramRow      = "row"
	paramID       = "id"
)

// openListView builds a list view from the page and page_size values read through get and mounts it.
// The view is returned even on error so callers can still render its (empty) table.
func openListView(ctx context.Context, users service.UserService, sizes []int, get func(string) string, onSelect func(model.User)) (*view.ListView, error) {
	v := view.NewListView(users, sizes, onSelect)

	if s := get(paramPage); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("%w: %q", view.ErrInvalidPage, s)
		}
		if err := v.SetPage(ctx, n); err != nil {
			return v, err
		}
	}
	if s := get(paramPageSize); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("%w: %q", view.ErrInvalidPageSize, s)
		}
		if err := v.SetPageSize(ctx, n); err != nil {
			return v, err
		}
	}
	return v, v.Mount(ctx)
}

// openEditView parses the route params, runs the loader and hands its result to a new edit view.
func openEditView(ctx context.Context, users service.UserService, raw map[string]string, navigate func(string)) (*view.EditView, error) {
	params, err := view.ParseParams(raw)
	if err != nil {
		return nil, err
	}
	loaded, err := view.LoadUser(ctx, users, params)
	if err != nil {
		return nil, err
	}
	v := view.NewEditView(params, navigate)
	if err := v.Resolve(loaded); err != nil {
		return nil, err
	}
	return v, nil
}

func routeParams(c *gin.Context) map[string]string {
	out := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		out[p.Key] = p.Value
	}
	return out
}

package view

import (
	"context"
	"errors"
	"strconv"

	"github.com/maxviazov/users-admin/internal/model"
)

const (
	// ListPath is the list route and the navigation target after a save.
	ListPath = "/examples/users"
	// EditRoute is the edit route pattern as registered with the router.
	EditRoute = ListPath + "/:" + ParamUserID

	ParamUserID = "userId"
)

var (
	errNotPositive  = errors.New("must be a positive integer")
	errNotCanonical = errors.New("must be written without sign or leading zeros")
)

// UserParams are the typed path params of the edit route.
type UserParams struct {
	UserID int64
}

// ParseParams turns raw path params into UserParams. userId must be a positive base-10 integer in
// canonical form (no sign, no leading zeros); anything else fails fast with a *ParamError.
func ParseParams(raw map[string]string) (UserParams, error) {
	s := raw[ParamUserID]
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return UserParams{}, &ParamError{Param: ParamUserID, Value: s, Err: err}
	}
	if id <= 0 {
		return UserParams{}, &ParamError{Param: ParamUserID, Value: s, Err: errNotPositive}
	}
	p := UserParams{UserID: id}
	if StringifyParams(p)[ParamUserID] != s {
		return UserParams{}, &ParamError{Param: ParamUserID, Value: s, Err: errNotCanonical}
	}
	return p, nil
}

// StringifyParams is the inverse of ParseParams for every valid id.
func StringifyParams(p UserParams) map[string]string {
	return map[string]string{ParamUserID: strconv.FormatInt(p.UserID, 10)}
}

// EditPath builds the URL of the edit page for p.
func EditPath(p UserParams) string {
	return ListPath + "/" + StringifyParams(p)[ParamUserID]
}

// Loaded is the result of a route loader: either still pending or ready with a value.
type Loaded[T any] struct {
	value T
	ready bool
}

func Pending[T any]() Loaded[T] { return Loaded[T]{} }

func Ready[T any](v T) Loaded[T] { return Loaded[T]{value: v, ready: true} }

func (l Loaded[T]) Get() (T, bool) { return l.value, l.ready }

func (l Loaded[T]) IsReady() bool { return l.ready }

// UserGetter resolves a single record.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (model.User, error)
}

// LoadUser is the loader of the edit route: it resolves the record before the view renders.
// Errors are returned untouched for the router's error handling.
func LoadUser(ctx context.Context, users UserGetter, p UserParams) (Loaded[model.User], error) {
	u, err := users.GetUser(ctx, p.UserID)
	if err != nil {
		return Pending[model.User](), err
	}
	return Ready(u), nil
}

package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/maxviazov/users-admin/internal/model"
)

// EditState is the lifecycle of one edit view instance.
type EditState int

const (
	StateLoading EditState = iota
	StateReady
	StateSaved
)

func (s EditState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaved:
		return "saved"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// UserSaver persists an edited record.
type UserSaver interface {
	UpdateUser(ctx context.Context, id int64, u model.UserUpdate) (model.User, error)
}

// EditView goes Loading -> Ready -> Saved. Saved is terminal: a successful save navigates to
// the list route and the instance is done.
type EditView struct {
	params   UserParams
	navigate func(path string)

	mu    sync.Mutex
	state EditState
	user  model.User
	form  model.UserUpdate
}

func NewEditView(params UserParams, navigate func(path string)) *EditView {
	return &EditView{params: params, navigate: navigate, state: StateLoading}
}

func (v *EditView) Params() UserParams { return v.params }

func (v *EditView) State() EditState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Resolve hands the loader result to the view. A pending result leaves it Loading.
func (v *EditView) Resolve(l Loaded[model.User]) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoading {
		return fmt.Errorf("%w: resolve in state %s", ErrInvalidState, v.state)
	}
	u, ok := l.Get()
	if !ok {
		return nil
	}
	v.user = u
	v.form = model.UpdateFrom(u)
	v.state = StateReady
	return nil
}

// User is the record the form was populated from.
func (v *EditView) User() model.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.user
}

// Form holds the values to render: the record's values, or the last submitted ones after a failed save.
func (v *EditView) Form() model.UserUpdate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// Save submits up. On failure the view stays Ready with up as its form values.
func (v *EditView) Save(ctx context.Context, users UserSaver, up model.UserUpdate) (model.User, error) {
	v.mu.Lock()
	if v.state != StateReady {
		state := v.state
		v.mu.Unlock()
		return model.User{}, fmt.Errorf("%w: save in state %s", ErrInvalidState, state)
	}
	v.form = up
	v.mu.Unlock()

	saved, err := users.UpdateUser(ctx, v.params.UserID, up)
	if err != nil {
		return model.User{}, err
	}

	v.mu.Lock()
	v.user = saved
	v.state = StateSaved
	v.mu.Unlock()

	if v.navigate != nil {
		v.navigate(ListPath)
	}
	return saved, nil
}

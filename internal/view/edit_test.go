package view_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/service"
	"github.com/maxviazov/users-admin/internal/view"
)

func TestEditView_Lifecycle(t *testing.T) {
	rec := model.User{ID: 3, FirstName: "Emma", LastName: "Wong", Email: "emma@example.com"}
	var navigated []string
	v := view.NewEditView(view.UserParams{UserID: 3}, func(p string) { navigated = append(navigated, p) })
	assert.Equal(t, view.StateLoading, v.State())

	require.NoError(t, v.Resolve(view.Pending[model.User]()))
	assert.Equal(t, view.StateLoading, v.State())

	require.NoError(t, v.Resolve(view.Ready(rec)))
	assert.Equal(t, view.StateReady, v.State())
	assert.Equal(t, model.UpdateFrom(rec), v.Form())

	users := &stubUsers{}
	up := model.UserUpdate{FirstName: "Emma", LastName: "Stone", Email: "emma@example.com"}
	saved, err := v.Save(context.Background(), users, up)
	require.NoError(t, err)
	assert.Equal(t, "Stone", saved.LastName)
	assert.Equal(t, view.StateSaved, v.State())
	assert.Equal(t, []string{view.ListPath}, navigated)

	_, err = v.Save(context.Background(), users, up)
	assert.ErrorIs(t, err, view.ErrInvalidState)
	assert.ErrorIs(t, v.Resolve(view.Ready(rec)), view.ErrInvalidState)
	assert.Len(t, navigated, 1)
}

func TestEditView_SaveBeforeReady(t *testing.T) {
	v := view.NewEditView(view.UserParams{UserID: 1}, nil)
	_, err := v.Save(context.Background(), &stubUsers{}, model.UserUpdate{})
	assert.ErrorIs(t, err, view.ErrInvalidState)
}

func TestEditView_FailedSaveStaysReady(t *testing.T) {
	var navigated int
	v := view.NewEditView(view.UserParams{UserID: 1}, func(string) { navigated++ })
	require.NoError(t, v.Resolve(view.Ready(model.User{ID: 1, FirstName: "A"})))

	bad := model.UserUpdate{FirstName: "", Email: "nope"}
	users := &stubUsers{saveErr: service.NewInvalidInputError([]service.FieldError{{Field: "email", Message: "bad"}})}
	_, err := v.Save(context.Background(), users, bad)

	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, view.StateReady, v.State())
	assert.Equal(t, bad, v.Form())
	assert.Zero(t, navigated)
}

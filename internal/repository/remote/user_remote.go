// Package remote implements the repository contracts on top of the upstream users API.
package remote

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/maxviazov/users-admin/internal/httpclient"
	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/repository"
)

const usersPath = "/users"

type UserRepository struct {
	client *httpclient.Client
}

func NewUserRepository(client *httpclient.Client) *UserRepository {
	return &UserRepository{client: client}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// List calls GET /users?page=&per_page=. Fields the upstream adds next to data/total are ignored.
func (r *UserRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.User], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Number))
	q.Set("per_page", strconv.Itoa(p.Size))

	var out repository.PageResult[model.User]
	if err := r.client.DoJSON(ctx, http.MethodGet, usersPath, q, nil, &out); err != nil {
		return repository.PageResult[model.User]{}, repository.MapHTTPError(err)
	}
	if out.Data == nil {
		out.Data = []model.User{}
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	if err := r.client.DoJSON(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return model.User{}, repository.MapHTTPError(err)
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, u model.UserUpdate) (model.User, error) {
	var out model.User
	if err := r.client.DoJSON(ctx, http.MethodPut, userPath(id), nil, u, &out); err != nil {
		return model.User{}, repository.MapHTTPError(err)
	}
	// some upstreams echo only the changed fields
	if out.ID == 0 {
		out = u.Apply(model.User{ID: id})
	}
	return out, nil
}

func userPath(id int64) string {
	return path.Join(usersPath, strconv.FormatInt(id, 10))
}

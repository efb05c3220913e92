package view

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/query"
	"github.com/maxviazov/users-admin/internal/repository"
)

const fallbackPageSize = 10

// DefaultPageSizes is the ordered set of page sizes offered when none is configured.
var DefaultPageSizes = []int{10, 15, 20}

// Pagination is the list view state; it is also the query key of a page fetch.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p Pagination) repositoryPage() repository.Page {
	return repository.Page{Number: p.Page, Size: p.PageSize}
}

// UserLister fetches one page of users.
type UserLister interface {
	ListUsers(ctx context.Context, page repository.Page) (repository.PageResult[model.User], error)
}

// Column is one fixed column of the users table.
type Column struct {
	Accessor string `json:"accessor"`
	Title    string `json:"title"`
}

var UserColumns = []Column{
	{Accessor: "id", Title: "ID"},
	{Accessor: "avatar", Title: "Avatar"},
	{Accessor: "first_name", Title: "First name"},
	{Accessor: "last_name", Title: "Last name"},
	{Accessor: "email", Title: "Email"},
}

// Value renders the cell of u under c.
func (c Column) Value(u model.User) string {
	switch c.Accessor {
	case "id":
		return strconv.FormatInt(u.ID, 10)
	case "avatar":
		return u.Avatar
	case "first_name":
		return u.FirstName
	case "last_name":
		return u.LastName
	case "email":
		return u.Email
	default:
		return ""
	}
}

// Table is everything needed to render the users table.
// TotalRecords stays nil until a response for the current key has arrived.
type Table struct {
	Columns               []Column     `json:"columns"`
	Records               []model.User `json:"records"`
	TotalRecords          *int         `json:"total_records"`
	Page                  int          `json:"page"`
	RecordsPerPage        int          `json:"records_per_page"`
	RecordsPerPageOptions []int        `json:"records_per_page_options"`
	Fetching              bool         `json:"fetching"`
}

// ListView owns the pagination state of the users table and fetches the page it points at.
// Once mounted, every change of page or page size fetches the new page; changing the page size
// keeps the current page.
type ListView struct {
	users    UserLister
	sizes    []int
	onSelect func(model.User)

	mu      sync.Mutex
	state   Pagination
	mounted bool

	query query.Observer[Pagination, repository.PageResult[model.User]]
}

// NewListView starts on page 1 with the first allowed size (10 when sizes is empty).
func NewListView(users UserLister, sizes []int, onUserSelected func(model.User)) *ListView {
	size := fallbackPageSize
	if len(sizes) > 0 {
		size = sizes[0]
	}
	return &ListView{
		users:    users,
		sizes:    slices.Clone(sizes),
		onSelect: onUserSelected,
		state:    Pagination{Page: 1, PageSize: size},
	}
}

func (v *ListView) Pagination() Pagination {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Mount fetches the current page; from then on state changes fetch by themselves.
func (v *ListView) Mount(ctx context.Context) error {
	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()
	return v.Load(ctx)
}

// Load fetches the page for the current state.
func (v *ListView) Load(ctx context.Context) error {
	key := v.Pagination()
	_, err := v.query.Fetch(ctx, key, func(ctx context.Context, p Pagination) (repository.PageResult[model.User], error) {
		return v.users.ListUsers(ctx, p.repositoryPage())
	})
	return err
}

func (v *ListView) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	return v.update(ctx, func(p *Pagination) { p.Page = page })
}

// SetPageSize keeps the page index as is, even when it ends up past the last page.
func (v *ListView) SetPageSize(ctx context.Context, size int) error {
	if !v.allowedSize(size) {
		return ErrInvalidPageSize
	}
	return v.update(ctx, func(p *Pagination) { p.PageSize = size })
}

func (v *ListView) update(ctx context.Context, fn func(*Pagination)) error {
	v.mu.Lock()
	before := v.state
	fn(&v.state)
	changed := v.state != before
	mounted := v.mounted
	v.mu.Unlock()

	if !changed || !mounted {
		return nil
	}
	return v.Load(ctx)
}

func (v *ListView) allowedSize(size int) bool {
	if len(v.sizes) == 0 {
		return size > 0
	}
	return slices.Contains(v.sizes, size)
}

func (v *ListView) Table() Table {
	state := v.Pagination()
	t := Table{
		Columns:               UserColumns,
		Records:               []model.User{},
		Page:                  state.Page,
		RecordsPerPage:        state.PageSize,
		RecordsPerPageOptions: slices.Clone(v.sizes),
		Fetching:              v.query.IsFetching(),
	}
	if data, ok := v.query.Data(); ok {
		if data.Data != nil {
			t.Records = data.Data
		}
		total := data.Total
		t.TotalRecords = &total
	}
	return t
}

// SelectRow hands the full record of row i of the current page to the selection callback.
func (v *ListView) SelectRow(i int) error {
	u, err := v.row(i)
	if err != nil {
		return err
	}
	if v.onSelect != nil {
		v.onSelect(u)
	}
	return nil
}

// SelectRecord is SelectRow for a click made on an earlier rendering of the page: row i must still
// hold the record with the given id, otherwise nothing is selected.
func (v *ListView) SelectRecord(i int, id int64) error {
	u, err := v.row(i)
	if err != nil {
		return err
	}
	if u.ID != id {
		return fmt.Errorf("%w: row %d holds user %d, not %d", ErrStaleSelection, i, u.ID, id)
	}
	if v.onSelect != nil {
		v.onSelect(u)
	}
	return nil
}

func (v *ListView) row(i int) (model.User, error) {
	data, ok := v.query.Data()
	if !ok || i < 0 || i >= len(data.Data) {
		return model.User{}, ErrRowOutOfRange
	}
	return data.Data[i], nil
}

func (t Table) HasPrev() bool { return t.Page > 1 }

// HasNext is false until the total is known.
func (t Table) HasNext() bool {
	return t.TotalRecords != nil && t.Page*t.RecordsPerPage < *t.TotalRecords
}

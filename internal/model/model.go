// Package model contains domain entities and DTOs used across layers.
// Data shapes only; behavior lives in service and view.
package model

// User is a record of the upstream users collection. Identity is ID.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// UserUpdate is the editable subset of a User submitted by the edit form.
type UserUpdate struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Avatar    string `json:"avatar" form:"avatar" validate:"omitempty,url"`
}

// UpdateFrom returns a form pre-populated with the record's current values.
func UpdateFrom(u User) UserUpdate {
	return UserUpdate{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
	}
}

// Apply returns a copy of u with the update's fields applied.
func (up UserUpdate) Apply(u User) User {
	u.FirstName = up.FirstName
	u.LastName = up.LastName
	u.Email = up.Email
	u.Avatar = up.Avatar
	return u
}

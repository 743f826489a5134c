package models

import (
	"encoding/json"
)

const (
	RoleAdmin     = "admin"
	RoleTemporary = "temporary"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session pairs the upstream bearer token with the identity it was issued
// for. The two are written together or not at all; UserJSON is the
// serialized User record so the pair survives restarts as a unit.
type Session struct {
	BaseUUIDModel
	Token    string `gorm:"type:text;not null" json:"token"`
	UserJSON string `gorm:"column:user_json;type:text;not null" json:"-"`
}

func NewSession(token string, user User) (*Session, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:    token,
		UserJSON: string(raw),
	}, nil
}

// User decodes the stored identity. An error here means the persisted pair
// is corrupt and the whole session must be discarded.
func (s *Session) User() (User, error) {
	var user User
	if err := json.Unmarshal([]byte(s.UserJSON), &user); err != nil {
		return User{}, err
	}
	return user, nil
}

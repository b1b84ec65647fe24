package model

import "fmt"

// User is one account row.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	IsAdmin      bool    `json:"is_admin"`
	LastLogin    *string `json:"last_login"`
	CreatedOn    string  `json:"created_on"`
}

// userAttributes is the ordered column list of the users table.
var userAttributes = []string{
	"id",
	"username",
	"password_hash",
	"is_admin",
	"last_login",
	"created_on",
}

// UserAttributes returns the ordered column names of the users table.
func UserAttributes() []string {
	out := make([]string, len(userAttributes))
	copy(out, userAttributes)
	return out
}

// UserFromRow maps a raw row, in users column order, to a User.
func UserFromRow(row []any) (*User, error) {
	if len(row) != len(userAttributes) {
		return nil, fmt.Errorf("user row has %d columns, want %d", len(row), len(userAttributes))
	}
	return &User{
		ID:           asInt64(row[0]),
		Username:     asString(row[1]),
		PasswordHash: asString(row[2]),
		IsAdmin:      asInt64(row[3]) != 0,
		LastLogin:    asStringPtr(row[4]),
		CreatedOn:    asString(row[5]),
	}, nil
}

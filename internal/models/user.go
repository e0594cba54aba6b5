package models

import "fmt"

// Role is the account role, parsed once at the auth boundary so the rest of
// the code never compares raw strings.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// ParseRole validates a stored or transmitted role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID       string `bson:"_id" json:"id"`
	Password string `bson:"password" json:"-"`
	Role     Role   `bson:"role" json:"role"`
}

package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

// ParseRole accepts any letter case, the way the portal capitalizes what the user typed.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	r := Role(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	switch r {
	case RoleAdmin, RoleCustomer:
		return r, true
	}
	return "", false
}

type User struct {
	ID            uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID        string `json:"userId" gorm:"size:50;not null;uniqueIndex"`
	PasswordHash  string `json:"-" gorm:"column:password;size:255;not null"`
	Role          Role   `json:"role" gorm:"size:20;not null;check:chk_users_role,role IN ('Admin','Customer')"`
	Email         string `json:"email" gorm:"size:100"`
	Age           int    `json:"age"`
	ContactNumber string `json:"contactNumber" gorm:"size:15"`
	City          string `json:"city" gorm:"size:50"`
	State         string `json:"state" gorm:"size:50"`
	Pincode       string `json:"pincode" gorm:"size:10"`

	// Declared here rather than as Order.User: an Order.User field would be read as
	// has-one because User carries its own UserID field.
	Orders []Order `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (u *User) ShippingProfile() ShippingAddress {
	return ShippingAddress{City: u.City, State: u.State, Pincode: u.Pincode}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

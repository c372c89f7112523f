package models

import (
	"time"

	"github.com/eventi/backend/internal/domain/identity"
)

// UserModel is the persistence model for login accounts
type UserModel struct {
	BaseModel
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	IsStaff      bool       `gorm:"column:is_staff;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.IsStaff = u.IsStaff
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

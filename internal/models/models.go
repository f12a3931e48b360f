package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	Name         string `gorm:"not null"                 json:"name"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	Active       bool   `gorm:"default:true;not null"    json:"active"`
}

type Organization struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Slug    string `gorm:"uniqueIndex;not null"     json:"slug"`
	OwnerID uint   `gorm:"index;not null"           json:"owner_id"`
}

// Membership ties a user to an organization with a role; the role is
// evaluated per organization, never globally.
type Membership struct {
	OrgID    uint      `gorm:"primaryKey" json:"org_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	Role     string    `gorm:"not null"   json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type Client struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID uint   `gorm:"index;not null"           json:"org_id"`
	Name  string `gorm:"not null"                 json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type Contract struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID    uint      `gorm:"index;not null"           json:"org_id"`
	ClientID uint      `gorm:"index;not null"           json:"client_id"`
	Title    string    `gorm:"not null"                 json:"title"`
	Value    float64   `json:"value"`
	Status   string    `gorm:"default:'draft'"          json:"status"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type Campaign struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrgID    uint    `gorm:"index;not null"           json:"org_id"`
	ClientID uint    `gorm:"index;not null"           json:"client_id"`
	Name     string  `gorm:"not null"                 json:"name"`
	Channel  string  `json:"channel"`
	Budget   float64 `json:"budget"`
	Status   string  `gorm:"default:'planned'"        json:"status"`
}

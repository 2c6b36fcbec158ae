package models

import "time"

type User struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username        string    `gorm:"column:username"                    json:"username"`
	Email           string    `gorm:"column:email"                       json:"email"`
	PasswordHash    string    `gorm:"column:password_hash"               json:"-"`
	FullName        string    `gorm:"column:full_name"                   json:"full_name"`
	ProfileImageURL string    `gorm:"column:profile_image_url"           json:"profile_image_url"`
	Bio             string    `gorm:"column:bio"                         json:"bio"`
	Phone           string    `gorm:"column:phone"                       json:"phone"`
	Address         string    `gorm:"column:address"                     json:"address"`
	Active          bool      `gorm:"column:is_active"                   json:"active"`
	CreatedAt       time.Time `gorm:"column:created_at"                  json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"                  json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Public drops the password hash before a user leaves the service layer.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record in the users collection, keyed by email
// (unique index, created at startup).
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty"          bson:"_id,omitempty"`
	Name        string             `json:"name"                  bson:"name"`
	Email       string             `json:"email"                 bson:"email"`
	Password    string             `json:"-"                     bson:"password"` // bcrypt hash, never serialized
	IsAdmin     bool               `json:"is_admin,omitempty"    bson:"isAdmin,omitempty"`
	Preferences map[string]string  `json:"preferences,omitempty" bson:"preferences,omitempty"`
	AvatarKey   string             `json:"-"                     bson:"avatar_key,omitempty"`
	CreatedAt   time.Time          `json:"created_at"            bson:"created_at"`

	// Token is attached on login responses only; it is persisted in the
	// sessions collection, not on the user document.
	Token string `json:"auth_token,omitempty" bson:"-"`
}

// Session associates a user with their current auth token. The sessions
// collection holds at most one document per user_id (keyed upsert).
type Session struct {
	ID     primitive.ObjectID `json:"-"          bson:"_id,omitempty"`
	UserID string             `json:"user_id"    bson:"user_id"` // the user's email
	JWT    string             `json:"auth_token" bson:"jwt"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PreferencesRequest is the JSON body for PUT /api/auth/preferences.
type PreferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}

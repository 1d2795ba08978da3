package entity

import "time"

type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
	StatusAway    UserStatus = "away"
)

// Valid reports whether s is one of the known presence states.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAway:
		return true
	}
	return false
}

type User struct {
	Id             string     `bson:"_id" json:"id"`
	Email          string     `bson:"email" json:"email"`
	Username       string     `bson:"username,omitempty" json:"username,omitempty"`
	DisplayName    string     `bson:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL       string     `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Bio            string     `bson:"bio,omitempty" json:"bio,omitempty"`
	Password       string     `bson:"password" json:"-"` // Don't expose password in JSON
	Status         UserStatus `bson:"status" json:"status"`
	LastSeen       time.Time  `bson:"lastSeen" json:"lastSeen"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	ChatBackground string     `bson:"chatBackground,omitempty" json:"chatBackground,omitempty"`
	ThemeColor     string     `bson:"themeColor,omitempty" json:"themeColor,omitempty"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left
// untouched in the stored record, never overwritten with empty values.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	DisplayName    *string `json:"displayName,omitempty"`
	PhotoURL       *string `json:"photoURL,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ChatBackground *string `json:"chatBackground,omitempty"`
	ThemeColor     *string `json:"themeColor,omitempty"`
}

// MatchesSearch reports whether the user's displayName, username or email
// contains term. Matching is case-insensitive; an empty term matches all.
func (u User) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	return containsFold(u.DisplayName, term) ||
		containsFold(u.Username, term) ||
		containsFold(u.Email, term)
}

package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

const StatusOnline = "online"

// User is an entry of the user directory.
type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Status      string
	LastSeen    time.Time
}

func (u User) IsOnline() bool {
	return u.Status == StatusOnline
}

// Initial returns the upper-cased first letter of the display name, used as avatar placeholder.
func (u User) Initial() string {
	for _, r := range u.DisplayName {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// ExcludeUser drops every user whose UID equals uid.
func ExcludeUser(users []User, uid string) []User {
	return lo.Filter(users, func(u User, _ int) bool {
		return u.UID != uid
	})
}

// SearchUsers keeps the users whose display name contains query, ignoring case.
// A blank query returns the full list.
func SearchUsers(users []User, query string) []User {
	if strings.TrimSpace(query) == "" {
		return users
	}
	needle := strings.ToLower(query)
	return lo.Filter(users, func(u User, _ int) bool {
		return strings.Contains(strings.ToLower(u.DisplayName), needle)
	})
}

// VisibleUsers is what the directory screen shows: everybody but the signed-in user,
// narrowed by the search text.
func VisibleUsers(users []User, selfUID, query string) []User {
	return SearchUsers(ExcludeUser(users, selfUID), query)
}

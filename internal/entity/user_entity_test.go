package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserStatusValid(t *testing.T) {
	require.True(t, StatusOnline.Valid())
	require.True(t, StatusOffline.Valid())
	require.True(t, StatusAway.Valid())
	require.False(t, UserStatus("busy").Valid())
	require.False(t, UserStatus("").Valid())
}

func TestUserMatchesSearch(t *testing.T) {
	user := User{
		Email:       "alice@example.com",
		Username:    "alice_w",
		DisplayName: "Alice Wonder",
	}

	require.True(t, user.MatchesSearch(""))
	require.True(t, user.MatchesSearch("alice"))
	require.True(t, user.MatchesSearch("WONDER"))
	require.True(t, user.MatchesSearch("example.com"))
	require.False(t, user.MatchesSearch("bob"))
}

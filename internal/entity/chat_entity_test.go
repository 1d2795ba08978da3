package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatAddParticipant(t *testing.T) {
	chat := Chat{Type: ChatTypeGroup, Participants: []string{"alice", "bob"}}

	chat.AddParticipant("carol")
	require.Equal(t, []string{"alice", "bob", "carol"}, chat.Participants)

	chat.AddParticipant("bob")
	require.Equal(t, []string{"alice", "bob", "carol"}, chat.Participants)
}

func TestChatRemoveParticipantStripsAdmin(t *testing.T) {
	chat := Chat{
		Type:         ChatTypeGroup,
		Participants: []string{"alice", "bob", "carol"},
		Admins:       []string{"alice", "bob"},
	}

	chat.RemoveParticipant("bob")

	require.Equal(t, []string{"alice", "carol"}, chat.Participants)
	require.Equal(t, []string{"alice"}, chat.Admins)
	require.False(t, chat.IsAdmin("bob"))
}

func TestChatAdminSetSemantics(t *testing.T) {
	chat := Chat{Type: ChatTypeGroup, Participants: []string{"alice", "bob"}}

	chat.AddAdmin("alice")
	chat.AddAdmin("alice")
	require.Equal(t, []string{"alice"}, chat.Admins)

	chat.RemoveAdmin("alice")
	require.Empty(t, chat.Admins)

	chat.RemoveAdmin("alice")
	require.Empty(t, chat.Admins)
}

func TestChatSetPinned(t *testing.T) {
	chat := Chat{Participants: []string{"alice", "bob"}}

	chat.SetPinned("alice", true)
	chat.SetPinned("alice", true)
	require.Equal(t, []string{"alice"}, chat.PinnedBy)

	chat.SetPinned("bob", true)
	require.Equal(t, []string{"alice", "bob"}, chat.PinnedBy)

	chat.SetPinned("alice", false)
	require.Equal(t, []string{"bob"}, chat.PinnedBy)
}

func TestChatIsDirectBetween(t *testing.T) {
	direct := Chat{Type: ChatTypeDirect, Participants: []string{"alice", "bob"}}
	require.True(t, direct.IsDirectBetween("alice", "bob"))
	require.True(t, direct.IsDirectBetween("bob", "alice"))
	require.False(t, direct.IsDirectBetween("alice", "carol"))

	group := Chat{Type: ChatTypeGroup, Participants: []string{"alice", "bob"}}
	require.False(t, group.IsDirectBetween("alice", "bob"))
}

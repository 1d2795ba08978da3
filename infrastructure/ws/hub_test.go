package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitForCount(t *testing.T, hub IHub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == want
	}, time.Second, 5*time.Millisecond)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	go hub.Run()

	client := NewClient("alice", hub, nil, zap.NewNop().Sugar())
	hub.RegisterClient(client)
	waitForCount(t, hub, 1)

	hub.UnregisterClient(client)
	waitForCount(t, hub, 0)

	// The send channel is closed on unregister.
	_, ok := <-client.send
	require.False(t, ok)
}

func TestHubSendToClient(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	go hub.Run()

	client := NewClient("alice", hub, nil, zap.NewNop().Sugar())
	hub.RegisterClient(client)
	waitForCount(t, hub, 1)

	hub.SendToClient("alice", []byte("hello"))

	select {
	case got := <-client.send:
		require.Equal(t, []byte("hello"), got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}

	// Unknown recipients are silently dropped.
	hub.SendToClient("nobody", []byte("lost"))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	go hub.Run()

	alice := NewClient("alice", hub, nil, zap.NewNop().Sugar())
	bob := NewClient("bob", hub, nil, zap.NewNop().Sugar())
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	waitForCount(t, hub, 2)

	hub.Broadcast([]byte("to everyone"))

	for _, client := range []*UserClient{alice, bob} {
		select {
		case got := <-client.send:
			require.Equal(t, []byte("to everyone"), got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestHubUnregisterCallback(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	gone := make(chan string, 1)
	hub.SetOnClientUnregister(func(client *UserClient) error {
		gone <- client.UserId
		return nil
	})
	go hub.Run()

	client := NewClient("alice", hub, nil, zap.NewNop().Sugar())
	hub.RegisterClient(client)
	waitForCount(t, hub, 1)
	hub.UnregisterClient(client)

	select {
	case userId := <-gone:
		require.Equal(t, "alice", userId)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for unregister callback")
	}
}

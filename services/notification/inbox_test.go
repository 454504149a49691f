package notification

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy/models"
)

func note(id string) models.Notification {
	return models.Notification{ID: id, Type: models.NotificationWarning}
}

func ids(ns []models.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestInbox_PrependKeepsBatchOrderNewestFirst(t *testing.T) {
	in := NewInbox()
	in.Prepend([]models.Notification{note("a"), note("b")})
	in.Prepend([]models.Notification{note("c"), note("d")})
	in.Prepend(nil)

	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(in.List()))
	assert.Equal(t, 4, in.Len())
}

func TestInbox_Dismiss(t *testing.T) {
	in := NewInbox()
	in.Prepend([]models.Notification{note("a"), note("b"), note("c")})
	listed := in.List()

	assert.True(t, in.Dismiss("b"))
	assert.False(t, in.Dismiss("b"))
	assert.Equal(t, []string{"a", "c"}, ids(in.List()))
	assert.Equal(t, []string{"a", "b", "c"}, ids(listed), "earlier listings are unaffected")
}

func TestInbox_DismissAll(t *testing.T) {
	in := NewInbox()
	in.Prepend([]models.Notification{note("a"), note("b")})

	assert.Equal(t, 2, in.DismissAll())
	assert.Empty(t, in.List())
	assert.Zero(t, in.DismissAll())
}

func TestMessageBuilder(t *testing.T) {
	raw, err := NewMessageBuilder("NOTIFICATIONS", []models.Notification{note("a")}).At(42).Build()
	require.NoError(t, err)

	var env struct {
		Type    string                `json:"type"`
		Payload []models.Notification `json:"payload"`
		SentAt  int64                 `json:"sentAt"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "NOTIFICATIONS", env.Type)
	assert.Equal(t, int64(42), env.SentAt)
	assert.Equal(t, []string{"a"}, ids(env.Payload))
}

func TestMelodyService_NilHub(t *testing.T) {
	assert.Error(t, NewMelodyService(nil).SendMessage([]byte("x")))
}

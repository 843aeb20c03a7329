package models_test

import (
	"testing"

	"marketchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestChannelNames pins the exact channel naming scheme: subscribers on
// other services depend on these strings verbatim.
func TestChannelNames(t *testing.T) {
	assert.Equal(t, "room_r1_viewer_u1", models.RoomStreamChannel("r1", "u1"))
	assert.Equal(t, "viewer_u1_room_list", models.RoomListChannel("u1"))
	assert.Equal(t, "viewer_u1_badge", models.BadgeChannel("u1"))
}

func TestChannelViewer(t *testing.T) {
	tests := []struct {
		channel string
		viewer  string
	}{
		{models.RoomStreamChannel("5f0c4ab2-room", "user-42"), "user-42"},
		{models.RoomListChannel("user-42"), "user-42"},
		{models.BadgeChannel("user-42"), "user-42"},
		{"viewer_user-42", ""},
		{"something_else", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.viewer, models.ChannelViewer(tt.channel), "channel %q", tt.channel)
	}
}

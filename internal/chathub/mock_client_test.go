package chathub_test

import (
	"marketchat/backend/internal/models"
)

type MockClient struct {
	userID      string
	closed      bool
	RecvChannel chan models.Envelope
}

func newMockClient(userID string) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.Envelope, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.Envelope {
	return c.RecvChannel
}

func (c *MockClient) Close() {
	c.closed = true
}

func (c *MockClient) Run() {
	// Not needed for testing
}

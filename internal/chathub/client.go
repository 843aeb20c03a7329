package chathub

import "marketchat/backend/internal/models"

// Client is the interface for any type of realtime subscriber connection.
// It abstracts the underlying transport, allowing the hub to manage
// different client types uniformly.
type Client interface {
	// GetUserID returns the unique identifier for the viewer associated with the client.
	GetUserID() string

	// GetSendChannel returns the channel to which the ManagerService (hub) sends
	// envelopes intended for this specific viewer. It is a send-only channel.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps, which handle the
	// connection lifecycle and outgoing envelopes.
	Run()
	// Close gracefully shuts down the client's connection and associated channels.
	Close()
}

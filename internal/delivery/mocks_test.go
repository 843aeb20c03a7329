package delivery_test

import (
	"time"

	"marketchat/backend/internal/models"
	"marketchat/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a comprehensive mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindOrCreateUser(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Room operations
func (m *MockStorage) SaveRoom(room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) FindOrCreateRoom(userID, peerID string) (*models.Room, error) {
	args := m.Called(userID, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomsForViewer(userID string) ([]models.Participant, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) TouchRoomLastMessage(roomID string, at time.Time) error {
	args := m.Called(roomID, at)
	return args.Error(0)
}

// Message operations
func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID string) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Participant operations
func (m *MockStorage) GetParticipants(roomID string) ([]models.Participant, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) GetParticipant(roomID, userID string) (*models.Participant, error) {
	args := m.Called(roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockStorage) GetHiddenParticipants(roomID string) ([]models.Participant, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) HideParticipant(roomID, userID string, at time.Time) error {
	args := m.Called(roomID, userID, at)
	return args.Error(0)
}

func (m *MockStorage) RestoreParticipant(roomID, userID string, unreadCount int64) error {
	args := m.Called(roomID, userID, unreadCount)
	return args.Error(0)
}

func (m *MockStorage) MarkRoomRead(roomID, userID string, at time.Time) error {
	args := m.Called(roomID, userID, at)
	return args.Error(0)
}

func (m *MockStorage) IncrementUnread(roomID, senderID string) error {
	args := m.Called(roomID, senderID)
	return args.Error(0)
}

func (m *MockStorage) CountMessagesSince(roomID, excludeSenderID string, since *time.Time) (int64, error) {
	args := m.Called(roomID, excludeSenderID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) TotalUnread(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// Notification operations
func (m *MockStorage) SaveNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) GetNotifications(recipientID string) ([]models.Notification, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

// Transaction runs fn against the same mock, so expectations set on the
// mock cover the transactional calls too.
func (m *MockStorage) Transaction(fn func(tx storage.Storage) error) error {
	args := m.Called()
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

// MockPublisher records every publish as a PublishedEvent for assertions.
type MockPublisher struct {
	mock.Mock
}

type PublishedEvent struct {
	Action  string
	Channel string
	Payload interface{}
}

func (m *MockPublisher) PublishAppend(channel string, payload interface{}) error {
	args := m.Called(channel, payload)
	return args.Error(0)
}

func (m *MockPublisher) PublishReplace(channel string, payload interface{}) error {
	args := m.Called(channel, payload)
	return args.Error(0)
}

// Events reconstructs the ordered publish history from the recorded calls.
func (m *MockPublisher) Events() []PublishedEvent {
	var events []PublishedEvent
	for _, call := range m.Calls {
		action := models.ActionAppend
		if call.Method == "PublishReplace" {
			action = models.ActionReplace
		}
		events = append(events, PublishedEvent{
			Action:  action,
			Channel: call.Arguments.String(0),
			Payload: call.Arguments.Get(1),
		})
	}
	return events
}

// ChannelsPublished returns the channels in publish order, filtered by method.
func (m *MockPublisher) ChannelsPublished(method string) []string {
	var channels []string
	for _, call := range m.Calls {
		if call.Method == method {
			channels = append(channels, call.Arguments.String(0))
		}
	}
	return channels
}

// MockSink captures exceptions reported by the orchestrator.
type MockSink struct {
	Captured []error
}

func (s *MockSink) CaptureException(err error) {
	s.Captured = append(s.Captured, err)
}

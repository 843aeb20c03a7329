package delivery_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"marketchat/backend/internal/delivery"
	"marketchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDeliveryService(storageMock *MockStorage, publisherMock *MockPublisher, sink *MockSink) *delivery.Service {
	return delivery.NewService(storageMock, publisherMock, sink)
}

func expectQuietFanout(storageMock *MockStorage, publisherMock *MockPublisher, roomID string, userIDs ...string) {
	storageMock.On("GetParticipants", roomID).Return(roomWithParticipants(roomID, userIDs...), nil)
	storageMock.On("GetHiddenParticipants", roomID).Return([]models.Participant{}, nil)
	storageMock.On("TotalUnread", mock.Anything).Return(int64(0), nil)
	storageMock.On("SaveNotification", mock.Anything).Return(nil)
	publisherMock.On("PublishAppend", mock.Anything, mock.Anything).Return(nil)
	publisherMock.On("PublishReplace", mock.Anything, mock.Anything).Return(nil)
}

func TestDeliver_HappyPath(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	storageMock.On("Transaction").Return(nil)
	storageMock.On("MarkRoomRead", "room1", "alice", mock.AnythingOfType("time.Time")).Return(nil)
	storageMock.On("IncrementUnread", "room1", "alice").Return(nil)
	expectQuietFanout(storageMock, publisherMock, "room1", "alice", "bob")

	// Act
	err := d.Deliver(newMessage(models.KindText, "room1", "alice"))

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, sink.Captured)
	storageMock.AssertCalled(t, "MarkRoomRead", "room1", "alice", mock.AnythingOfType("time.Time"))
	storageMock.AssertCalled(t, "IncrementUnread", "room1", "alice")
	storageMock.AssertCalled(t, "SaveNotification", mock.Anything)
	storageMock.AssertCalled(t, "GetHiddenParticipants", "room1")
}

func TestDeliver_SenderResetWithinOperationWindow(t *testing.T) {
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	var resetAt time.Time
	storageMock.On("Transaction").Return(nil)
	storageMock.On("MarkRoomRead", "room1", "alice", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			resetAt = args.Get(2).(time.Time)
		}).Return(nil)
	storageMock.On("IncrementUnread", "room1", "alice").Return(nil)
	expectQuietFanout(storageMock, publisherMock, "room1", "alice", "bob")

	before := time.Now()
	err := d.Deliver(newMessage(models.KindText, "room1", "alice"))
	after := time.Now()

	assert.NoError(t, err)
	assert.False(t, resetAt.Before(before), "sender reset timestamp must fall within the operation")
	assert.False(t, resetAt.After(after))
}

func TestDeliver_TransactionFailure_NothingPublished(t *testing.T) {
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	storageMock.On("Transaction").Return(errors.New("lock timeout"))

	err := d.Deliver(newMessage(models.KindText, "room1", "alice"))

	assert.Error(t, err)
	// Нічого не опубліковано і не зарепортовано: транзакція відкотилася,
	// повідомлення лишилося збереженим, викликач може повторити.
	publisherMock.AssertNotCalled(t, "PublishAppend", mock.Anything, mock.Anything)
	publisherMock.AssertNotCalled(t, "PublishReplace", mock.Anything, mock.Anything)
	storageMock.AssertNotCalled(t, "SaveNotification", mock.Anything)
	assert.Empty(t, sink.Captured)
}

func TestDeliver_PostCommitFailure_CapturedAndReturned(t *testing.T) {
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	storageMock.On("Transaction").Return(nil)
	storageMock.On("MarkRoomRead", "room1", "alice", mock.Anything).Return(nil)
	storageMock.On("IncrementUnread", "room1", "alice").Return(nil)
	storageMock.On("GetParticipants", "room1").Return(nil, assert.AnError)

	err := d.Deliver(newMessage(models.KindText, "room1", "alice"))

	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, sink.Captured, 1, "post-commit failures are reported to the error sink")
}

func TestDeliver_SystemKind_SkipsNotifications(t *testing.T) {
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	storageMock.On("Transaction").Return(nil)
	storageMock.On("MarkRoomRead", "room1", "alice", mock.Anything).Return(nil)
	storageMock.On("IncrementUnread", "room1", "alice").Return(nil)
	storageMock.On("GetParticipants", "room1").Return(roomWithParticipants("room1", "alice", "bob"), nil)
	storageMock.On("GetHiddenParticipants", "room1").Return([]models.Participant{}, nil)
	storageMock.On("TotalUnread", mock.Anything).Return(int64(0), nil)
	publisherMock.On("PublishAppend", mock.Anything, mock.Anything).Return(nil)
	publisherMock.On("PublishReplace", mock.Anything, mock.Anything).Return(nil)

	err := d.Deliver(newMessage(models.KindSystem, "room1", "alice"))

	assert.NoError(t, err)
	storageMock.AssertNotCalled(t, "SaveNotification", mock.Anything)
}

// Два конкурентні надсилання в одну кімнату від різних відправників:
// кожен третій учасник має отримати рівно +2, жоден інкремент не губиться.
func TestDeliver_ConcurrentSendsSameRoom_NoLostUpdate(t *testing.T) {
	storageMock := new(MockStorage)
	publisherMock := new(MockPublisher)
	sink := new(MockSink)
	d := newDeliveryService(storageMock, publisherMock, sink)

	users := []string{"alice", "bob", "carol"}
	var mu sync.Mutex
	counters := map[string]int{}

	storageMock.On("Transaction").Return(nil)
	storageMock.On("MarkRoomRead", "room1", mock.Anything, mock.Anything).Return(nil)
	storageMock.On("IncrementUnread", "room1", mock.Anything).
		Run(func(args mock.Arguments) {
			sender := args.String(1)
			mu.Lock()
			defer mu.Unlock()
			for _, u := range users {
				if u != sender {
					counters[u]++
				}
			}
		}).Return(nil)
	expectQuietFanout(storageMock, publisherMock, "room1", users...)

	var wg sync.WaitGroup
	for _, sender := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(sender string) {
			defer wg.Done()
			msg := newMessage(models.KindText, "room1", sender)
			assert.NoError(t, d.Deliver(msg))
		}(sender)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, counters["carol"], "non-sender of both messages gains exactly 2")
	assert.Equal(t, 1, counters["alice"])
	assert.Equal(t, 1, counters["bob"])
}

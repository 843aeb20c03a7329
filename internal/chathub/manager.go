package chathub

import (
	"log"

	"marketchat/backend/internal/models"
)

// ManagerService — хаб realtime-підписників. Він отримує конверти з
// Pub/Sub (опубліковані конвеєром доставки на цьому або іншому
// інстансі) та маршрутизує кожен конверт до з'єднання того viewer'а,
// якому адресовано канал.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	PubSubCh     chan models.Envelope
}

// NewManagerService Constructor
func NewManagerService() *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.Envelope),
	}
}

// Run — головний цикл хаба. Весь доступ до Clients відбувається лише з
// цієї goroutine, тому мапа не потребує блокувань.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetUserID()] = client
			log.Printf("Registered realtime client for viewer %s", client.GetUserID())

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetUserID()]; ok {
				delete(m.Clients, client.GetUserID())
				client.Close()
				log.Printf("Unregistered realtime client for viewer %s", client.GetUserID())
			}

		case env := <-m.PubSubCh:
			m.route(env)
		}
	}
}

// route доставляє конверт viewer'у, якому адресовано канал.
// Конверти для viewer'ів без активного з'єднання просто відкидаються:
// стан уже збережено, клієнт добере його при наступному запиті.
func (m *ManagerService) route(env models.Envelope) {
	viewerID := models.ChannelViewer(env.Channel)
	if viewerID == "" {
		log.Printf("WARNING: Dropping envelope for unrecognized channel %q", env.Channel)
		return
	}

	client, ok := m.Clients[viewerID]
	if !ok {
		return
	}

	select {
	case client.GetSendChannel() <- env:
	default:
		// Клієнт не встигає читати — відключаємо його.
		delete(m.Clients, viewerID)
		client.Close()
		log.Printf("WARNING: Dropped slow realtime client for viewer %s", viewerID)
	}
}

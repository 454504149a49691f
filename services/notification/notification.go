package notification

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message []byte) error
}

// MelodyService pushes messages to every connected websocket view.
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message []byte) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	if s.m.IsClosed() {
		return nil
	}
	return s.m.Broadcast(message)
}

// Envelope is the frame sent to views: a type tag plus its payload.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	SentAt  int64       `json:"sentAt"`
}

type MessageBuilder struct {
	kind    string
	payload interface{}
	sentAt  int64
}

func NewMessageBuilder(kind string, payload interface{}) *MessageBuilder {
	return &MessageBuilder{
		kind:    kind,
		payload: payload,
	}
}

func (b *MessageBuilder) At(ms int64) *MessageBuilder {
	b.sentAt = ms
	return b
}

func (b *MessageBuilder) Build() ([]byte, error) {
	return json.Marshal(Envelope{Type: b.kind, Payload: b.payload, SentAt: b.sentAt})
}

package services

import (
	"time"

	"github.com/olahol/melody"

	"occupancy/constants"
	"occupancy/metrics"
	"occupancy/models"
	"occupancy/services/logger"
	"occupancy/services/notification"
)

// ViewHub pushes live state and new alerts to every open websocket view.
type ViewHub struct {
	m        *melody.Melody
	sender   notification.Service
	snapshot func() models.Snapshot
	now      func() time.Time
	logger   logger.Logger
}

func NewViewHub(m *melody.Melody, snapshot func() models.Snapshot, log logger.Logger) *ViewHub {
	if log == nil {
		log = logger.Nop{}
	}
	h := &ViewHub{
		m:        m,
		sender:   notification.NewMelodyService(m),
		snapshot: snapshot,
		now:      time.Now,
		logger:   log,
	}
	if m != nil {
		m.HandleConnect(h.onConnect)
		m.HandleDisconnect(h.onDisconnect)
	}
	return h
}

// onConnect sends the current snapshot to the new view only.
func (h *ViewHub) onConnect(s *melody.Session) {
	metrics.SetViewSessions(h.m.Len())
	msg, err := h.build(constants.ViewMessageState, h.snapshot())
	if err != nil {
		h.logger.Error("Build snapshot for new view: %v", err)
		return
	}
	if err := s.Write(msg); err != nil {
		h.logger.Warn("Send snapshot to new view: %v", err)
	}
}

func (h *ViewHub) onDisconnect(*melody.Session) {
	metrics.SetViewSessions(h.m.Len())
}

func (h *ViewHub) build(kind string, payload interface{}) ([]byte, error) {
	return notification.NewMessageBuilder(kind, payload).At(h.now().UnixMilli()).Build()
}

func (h *ViewHub) push(kind string, payload interface{}) {
	if h.m == nil {
		return
	}
	msg, err := h.build(kind, payload)
	if err != nil {
		h.logger.Error("Build %s view message: %v", kind, err)
		return
	}
	if err := h.sender.SendMessage(msg); err != nil {
		h.logger.Warn("Push %s to views: %v", kind, err)
	}
}

func (h *ViewHub) PushState(snap models.Snapshot) {
	h.push(constants.ViewMessageState, snap)
}

func (h *ViewHub) PushNotifications(batch []models.Notification) {
	if len(batch) == 0 {
		return
	}
	h.push(constants.ViewMessageNotifications, batch)
}

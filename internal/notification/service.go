package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level grades a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one user-facing message
type Notification struct {
	ID        string `json:"id"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier is the interface game services use to surface messages
type Notifier interface {
	Success(message string)
	Info(message string)
	Warning(message string)
	Error(message string)
}

// Service keeps a ring of recent notifications and fans new ones out
// over the stream hub.
type Service struct {
	mu     sync.Mutex
	hub    *Hub
	recent []Notification
}

// NewService creates a notification service. hub may be nil in tests.
func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

// Success records a success-level notification.
func (s *Service) Success(message string) { s.notify(LevelSuccess, message) }

// Info records an info-level notification.
func (s *Service) Info(message string) { s.notify(LevelInfo, message) }

// Warning records a warning-level notification.
func (s *Service) Warning(message string) { s.notify(LevelWarning, message) }

// Error records an error-level notification.
func (s *Service) Error(message string) { s.notify(LevelError, message) }

func (s *Service) notify(level Level, message string) {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}

	s.mu.Lock()
	s.recent = append(s.recent, n)
	if len(s.recent) > RecentRingSize {
		s.recent = s.recent[len(s.recent)-RecentRingSize:]
	}
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(EventTypeNotification, n)
	}
}

// Recent returns the retained notifications, oldest first.
func (s *Service) Recent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.recent))
	copy(out, s.recent)
	return out
}

package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mserrato/accounts-be/internal/models"
)

// EventServiceProvider defines the interface for audit event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, actorID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

// EventService records and queries audit events for account activity.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new audit event to the database.
func (s *EventService) CreateEvent(eventType, level, message string, actorID *string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		ActorID: actorID,
	}

	_, err := s.db.Exec("INSERT INTO events (id, type, level, message, actor_id) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.ActorID)
	return err
}

// GetRecentEvents returns the most recent audit events, newest first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, actor_id, created_at FROM events ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Level, &e.Message, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes events created before cutoff and reports how many
// rows were removed.
func (s *EventService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	// CURRENT_TIMESTAMP stores UTC "YYYY-MM-DD HH:MM:SS"; compare in the
	// same shape so the text ordering is the time ordering.
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

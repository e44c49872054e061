package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReportSyncMessage asks the worker to re-export one report month. It
// carries only the coordinates; the worker recomputes the summary from the
// database so a stale message can never export stale numbers.
type ReportSyncMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportSyncMessage(year int, month time.Month) *ReportSyncMessage {
	return &ReportSyncMessage{
		Year:      year,
		Month:     int(month),
		Timestamp: time.Now(),
	}
}

func (m *ReportSyncMessage) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month %d", m.Month)
	}
	if m.Year < 1970 {
		return fmt.Errorf("invalid year %d", m.Year)
	}
	return nil
}

func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

package entity

import "time"

// LiveAlert тревога ленты живой линии
type LiveAlert struct {
	ID           string    `json:"id"`
	SerialNumber string    `json:"serial_number"`
	DefectCount  int       `json:"defect_count"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

package crm

import "time"

type commitRequest struct {
	Operation string    `json:"operation"`
	SentAt    time.Time `json:"sentAt"`
}

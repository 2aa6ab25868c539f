package mail

import "time"

type AlertEmailData struct {
	Title     string
	Message   string
	Type      string
	ID        string
	CreatedAt time.Time
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

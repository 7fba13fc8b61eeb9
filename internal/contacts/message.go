package contacts

import (
	"errors"
	"time"
)

var (
	ErrMessageNotFound = errors.New("contact message not found")
	ErrMessageInvalid  = errors.New("contact message invalid")
)

type Message struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Content   string    `json:"message"`
	SenderIP  string    `json:"sender_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one line of the chat transcript.
type Message struct {
	Role    Role      `json:"role" example:"agent" enums:"user,agent"`
	Content string    `json:"content" example:"Qual método deseja usar para a transferência?"`
	At      time.Time `json:"at"`
}

package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeRecordCreated MessageType = "record_created"
	TypeRecordUpdated MessageType = "record_updated"
	TypeRecordDeleted MessageType = "record_deleted"
	TypePing          MessageType = "ping"
	TypePong          MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type RecordDeletedPayload struct {
	RecordID string `json:"record_id"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

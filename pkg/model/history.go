package model

import (
	"time"

	"github.com/google/uuid"
)

type HistoryID string

// NewHistoryID generates a new unique HistoryID
func NewHistoryID() HistoryID {
	return HistoryID(uuid.New().String())
}

// ResponsePayload is the wire shape of one assistant answer. It is what
// the HTTP surface returns and what gets persisted with the query.
type ResponsePayload struct {
	Intent   Intent            `json:"intent" firestore:"intent"`
	Entities map[string]string `json:"entities" firestore:"entities"`
	Reply    string            `json:"reply" firestore:"reply"`
}

// QueryHistory is one stored user interaction.
type QueryHistory struct {
	ID        HistoryID       `json:"id" firestore:"id"`
	UserID    string          `json:"user_id" firestore:"user_id"`
	Query     string          `json:"query" firestore:"query"`
	Location  string          `json:"location,omitempty" firestore:"location,omitempty"`
	CreatedAt time.Time       `json:"created_at" firestore:"created_at"`
	Response  ResponsePayload `json:"response" firestore:"response"`
}

// NewQueryHistory builds a history record with a fresh ID. The caller
// sets CreatedAt so clocks stay injectable in tests.
func NewQueryHistory(userID, query string, resp ResponsePayload) *QueryHistory {
	return &QueryHistory{
		ID:       NewHistoryID(),
		UserID:   userID,
		Query:    query,
		Location: resp.Entities[EntityLocation],
		Response: resp,
	}
}

package api

import (
	"context"
)

// RESPONSES START:
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type RemovalsResponse struct {
	Pending int `json:"pending"`
}

// RESPONSES END:

// StorageInfo is the part of a ledger backend the ops endpoints look at.
type StorageInfo interface {
	GetStorageType() string
}

// Pinger is implemented by backends that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PendingCounter interface {
	Pending() int
}

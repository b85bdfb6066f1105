// Package service defines the service and storage contracts plus the wire
// DTOs, one file per domain area. Implementations live in service/core.
package service

const (
	// PreviewRows caps how many rows of any result table are returned to the
	// frontend. Ingestion and execution themselves are uncapped.
	PreviewRows = 100
)

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Authentication methods recorded in the audit trail.
const (
	MethodPassword = "password"
	MethodFace     = "face"
)

// AuthEvent is one audit record of an authentication attempt. UserID is nil
// when the attempt named an unknown account.
type AuthEvent struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Username   string     `json:"username"`
	Method     string     `json:"method"`
	Success    bool       `json:"success"`
	Confidence float64    `json:"confidence"`
	Tier       string     `json:"tier,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	ClientIP   string     `json:"client_ip"`
	LatencyMs  int64      `json:"latency_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}

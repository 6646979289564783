// Package incident derives grouping keys and variation strategies for
// submissions that reference the same real-world incident.
package incident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key is a stable grouping identifier for an incident. It is a SHA-256 hex
// digest, never a primary identity: two submissions about the same broadcast
// share a Key but remain separate records.
type Key string

// ComputeKey derives the incident key from the normalized identifying fields.
// Deterministic and side-effect free: identical inputs after normalization
// always produce the same key.
func ComputeKey(outletID uuid.UUID, date time.Time, programme, presenter string) Key {
	canonical := fmt.Sprintf("%s|%s|%s|%s",
		outletID.String(),
		date.Format("2006-01-02"),
		normalize(programme),
		normalize(presenter),
	)
	sum := sha256.Sum256([]byte(canonical))
	return Key(hex.EncodeToString(sum[:]))
}

// normalize lowercases, trims, and collapses internal whitespace so that
// "Budget  Speech " and "budget speech" group together.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

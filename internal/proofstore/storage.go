package proofstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Storage persists proof images in an opaque content-addressed store and
// returns a stable location string for the judgment service to fetch.
type Storage interface {
	Store(ctx context.Context, userID, goalID uuid.UUID, data []byte, contentType string) (string, error)
}

// ObjectKey derives the content-addressed key for a proof: namespaced by
// user and goal, carrying the submission date and a SHA-256 digest of
// the payload. The same bytes submitted on the same day map to the same
// object.
func ObjectKey(userID, goalID uuid.UUID, day time.Time, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("users/%s/goals/%s/%s_%s",
		userID, goalID, day.Format("2006-01-02"), hex.EncodeToString(sum[:]))
}

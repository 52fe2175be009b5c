// Package share implements the stateless share-link codec. A snapshot of
// task projections is serialized to JSON and base64-encoded into a token
// that a viewer can decode without authentication or a server round trip.
// The content is fully recoverable by anyone holding the token; sharing is
// a convenience, not a security boundary.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidShareLink is returned when a token is not valid base64 or the
// decoded payload is not a well-formed snapshot.
var ErrInvalidShareLink = errors.New("invalid or corrupted share link")

// TaskProjection is the read-only view of a task embedded in a share link.
type TaskProjection struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `json:"completed"`
}

// Snapshot is the decoded content of a share link.
type Snapshot struct {
	Tasks    []TaskProjection `json:"tasks"`
	SharedAt time.Time        `json:"sharedAt"`
}

// Encode serializes the task projections plus the current time into a
// URL-safe token. Multiple encodes of the same tasks differ only in the
// embedded timestamp.
func Encode(tasks []TaskProjection) (string, error) {
	return EncodeAt(tasks, time.Now().UTC())
}

// EncodeAt is Encode with an explicit share timestamp.
func EncodeAt(tasks []TaskProjection, sharedAt time.Time) (string, error) {
	if tasks == nil {
		tasks = []TaskProjection{}
	}
	payload, err := json.Marshal(Snapshot{Tasks: tasks, SharedAt: sharedAt})
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// Decode reverses Encode. It also accepts tokens in the standard base64
// alphabet, which the original web client produced. Decoding is pure and
// idempotent; any malformed input fails with ErrInvalidShareLink.
func Decode(token string) (*Snapshot, error) {
	payload, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		payload, err = base64.StdEncoding.DecodeString(token)
	}
	if err != nil {
		return nil, ErrInvalidShareLink
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, ErrInvalidShareLink
	}
	if snap.Tasks == nil {
		snap.Tasks = []TaskProjection{}
	}
	return &snap, nil
}

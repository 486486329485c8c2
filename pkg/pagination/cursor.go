// Package pagination implements keyset cursors for listing the session
// history in descending start-time order.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor marks cursors that cannot be decoded. Callers may
// treat it as "start from the first page".
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Cursor marks a position in the session history. The id breaks ties
// between sessions sharing a start time.
type Cursor struct {
	ID      uuid.UUID `json:"id"`
	StartAt time.Time `json:"start_at"`
}

// Encode serializes the cursor to an opaque URL-safe string.
func (c *Cursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor string. An empty string decodes
// to a nil cursor, meaning the first page.
func DecodeCursor(encoded string) (*Cursor, error) {
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	return &cursor, nil
}

// NormalizeLimit clamps a requested page size to [1, MaxLimit],
// substituting the default for zero and negative values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

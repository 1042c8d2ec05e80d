package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins a listing position to a (created_at, id) keyset pair.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer adds the extra row used to detect whether a next page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders an opaque cursor token for the client.
func EncodeCursor(cursor Cursor) string {
	raw := strconv.FormatInt(cursor.CreatedAt.UTC().UnixMicro(), 10) + ":" + cursor.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor reverses EncodeCursor. A blank token means "from the top" and
// yields a nil cursor without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	micros, idPart, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, fmt.Errorf("malformed cursor token")
	}
	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}

	return &Cursor{CreatedAt: time.UnixMicro(ts).UTC(), ID: id}, nil
}

// Page is one page of results plus the cursor for the next one.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// BuildPage trims the buffer row fetched with LimitWithBuffer and, when it was
// present, encodes the cursor pointing at the following page.
func BuildPage[T any](rows []T, limit int, cursorOf func(T) Cursor) Page[T] {
	limit = NormalizeLimit(limit)
	page := Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.NextCursor = EncodeCursor(cursorOf(page.Items[limit-1]))
	}
	return page
}

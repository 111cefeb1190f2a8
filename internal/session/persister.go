package session

import (
	"context"
	"errors"
)

// Slot names shared by every persister. Both are written and cleared together.
const (
	SlotToken = "token"
	SlotUser  = "user"
)

// ErrCorrupt is returned by a persister whose stored state cannot be read back.
var ErrCorrupt = errors.New("session: corrupt persisted state")

// Record is the raw persisted form. An empty field means the slot is absent.
type Record struct {
	Token string
	User  string
}

func (r Record) Empty() bool {
	return r.Token == "" && r.User == ""
}

// Persister stores the two session slots outside the process.
type Persister interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
	Clear(ctx context.Context) error
}

package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Entry is one raw record of the key/value table.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

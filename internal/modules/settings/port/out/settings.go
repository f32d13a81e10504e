package out

import "context"

// Store reads and writes the raw settings object. Read reports false when
// nothing has been saved yet.
type Store interface {
	Read(ctx context.Context) (map[string]any, bool, error)
	Write(ctx context.Context, raw map[string]any) error
	Path() string
}

package session

import "context"

// Repository is plain key-value access to the persisted session table.
// Get returns "" for a missing key; Clear removes every key ever written.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

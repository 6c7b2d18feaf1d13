package users

import "context"

// Repository port for persisting and querying analysis history.
// Implementations key records by the normalized email.
type Repository interface {
	AppendAnalysis(ctx context.Context, name, email string, entry Analysis) error
	Get(ctx context.Context, email string) (*User, error)
}

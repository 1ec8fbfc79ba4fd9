package account

import "context"

// Repository reads the caller's profile, including every league snapshot.
type Repository interface {
	GetProfile(ctx context.Context) (Profile, error)
}

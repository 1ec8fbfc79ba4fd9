package roster

import "context"

// Repository is the remote roster store. Reads go through the account
// profile; callers re-read it after every mutation instead of patching a
// local snapshot.
type Repository interface {
	AddMember(ctx context.Context, leagueID string, member Ref) error
	RemoveMember(ctx context.Context, leagueID string, member Ref) error
	SetPickedStatus(ctx context.Context, leagueID string, member Ref, picked bool) error
	SwapMember(ctx context.Context, leagueID string, outgoing, incoming Ref) error
	CreateLeague(ctx context.Context, league NewLeague) error
}

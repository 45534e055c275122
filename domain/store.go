package domain

import "context"

// Tx exposes repositories bound to one unit of work.
type Tx interface {
	Users() UserRepository
	Rooms() RoomRepository
	Games() GameRepository
	Decks() DeckRepository
	Cards() CardRepository
}

// Store runs fn as a single atomic unit: either every write made through tx
// becomes visible or none does. A non-nil error from fn rolls back.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every domain error unwraps to exactly one of them.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAuthRequired     = errors.New("auth required")
	ErrAuthFailed       = errors.New("auth failed")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Users
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrUserDisabled       = newError(ErrForbidden, "user is disabled")
	ErrInvalidCredentials = newError(ErrAuthFailed, "invalid credentials")
	ErrInvalidExperience  = newError(ErrInvalidInput, "experience delta must be positive")
	ErrUsernameTaken      = newError(ErrConflict, "username is already taken")
	ErrInputTooLong       = newError(ErrInvalidInput, "Input exceeds character limit")
	ErrInvalidUsername    = newError(ErrInvalidInput, "not correct username")
	ErrInvalidPassword    = newError(ErrInvalidInput, "not correct password")
)

// Rooms
var (
	ErrRoomNotFound          = newError(ErrNotFound, "room not found")
	ErrNotInRoom             = newError(ErrNotFound, "user is not in this room")
	ErrAlreadyHasActiveRoom  = newError(ErrConflict, "user already has an active room")
	ErrAlreadyInAnotherRoom  = newError(ErrConflict, "user is already in another active room")
	ErrSelfJoin              = newError(ErrConflict, "owner cannot join as player")
	ErrRoomFull              = newError(ErrCapacityExceeded, "the room is already full")
	ErrRoomPasswordRequired  = newError(ErrAuthRequired, "enter the password to enter the room")
	ErrRoomPasswordIncorrect = newError(ErrAuthFailed, "incorrect password")
	ErrNotRoomOwner          = newError(ErrForbidden, "you are not the owner of the room")
	ErrNoPlayerInRoom        = newError(ErrInvalidInput, "player not found in the room")
	ErrRoomPrivacyMismatch   = newError(ErrInvalidInput, "password is required for private rooms and not allowed for public ones")
	ErrRoomTransition        = newError(ErrConflict, "room status transition not allowed")
	ErrInvalidRoomPassword   = newError(ErrInvalidInput, "room password must be 4 to 32 characters")
)

// Games
var (
	ErrGameNotFound         = newError(ErrNotFound, "game not found")
	ErrGameAlreadyOngoing   = newError(ErrConflict, "a game is already in progress in the room")
	ErrGameAlreadyCompleted = newError(ErrConflict, "game has already been completed")
	ErrSamePlayers          = newError(ErrInvalidInput, "a game needs two different players")
	ErrNotGamePlayer        = newError(ErrInvalidInput, "player does not belong to this game")
)

// Decks
var (
	ErrDeckNotFound     = newError(ErrNotFound, "deck not found")
	ErrNotDeckOwner     = newError(ErrForbidden, "user does not own this deck")
	ErrDeckLimitReached = newError(ErrCapacityExceeded, "user can only have up to 3 decks")
	ErrTooManyCards     = newError(ErrCapacityExceeded, "deck can only have up to 30 cards")
	ErrDeckFull         = newError(ErrCapacityExceeded, "deck already has 30 cards")
	ErrCatalogTooSmall  = newError(ErrCapacityExceeded, "not enough cards in the catalog")
	ErrDuplicateCard    = newError(ErrInvalidInput, "card already exists in the deck")
	ErrCardNotInDeck    = newError(ErrInvalidInput, "card does not exist in the deck")
	ErrUnknownCard      = newError(ErrInvalidInput, "card does not exist in the catalog")
	ErrInvalidDeckName  = newError(ErrInvalidInput, "deck name is required and must be at most 100 characters")
	ErrEmptyDeckUpdate  = newError(ErrInvalidInput, "nothing to update")
)

// InvalidCardIDsError lists every card id that is missing from the catalog.
type InvalidCardIDsError struct {
	IDs []uint
}

func (e *InvalidCardIDsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return "the following card IDs are invalid: " + strings.Join(ids, ", ")
}

func (e *InvalidCardIDsError) Unwrap() error { return ErrInvalidInput }

package game

import "errors"

// Conflict errors: the requested transition does not fit the current state.
var (
	ErrGameActive   = errors.New("a game is already running here")
	ErrNoActiveGame = errors.New("no game is running here")
	ErrGameFinished = errors.New("game finished")
)

// Validation errors: the guess is rejected without consuming an attempt.
var (
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrWrongLength    = errors.New("guess has the wrong length")
	ErrUnknownGuess   = errors.New("not in word list")
	ErrAlreadyGuessed = errors.New("already guessed")
)

// ErrNoAnswer is returned when the corpus has nothing matching the request.
var ErrNoAnswer = errors.New("no answer available")

package repository

import "errors"

// Common repository errors. Handlers map these onto HTTP statuses: invalid
// order / different board -> 400, not found -> 404, not author -> 403,
// anything else -> 500.
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")

	// ErrLabelNotFound is returned when a label is not found
	ErrLabelNotFound = errors.New("label not found")

	// ErrCommentNotFound is returned when a comment is not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentAuthor is returned when a user other than the author tries
	// to edit or delete a comment
	ErrNotCommentAuthor = errors.New("only the author can modify this comment")

	// ErrInvalidOrder is returned when a submitted reorder list is not a
	// permutation of the scope's current children
	ErrInvalidOrder = errors.New("invalid order")

	// ErrDifferentBoard is returned when a card move targets a column on
	// another board
	ErrDifferentBoard = errors.New("target column belongs to a different board")
)

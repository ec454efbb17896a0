package position_test

import (
	"testing"

	"flowboard/internal/position"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestValidate_Permutation(t *testing.T) {
	current := ids(3)
	submitted := []uuid.UUID{current[2], current[0], current[1]}

	assert.NoError(t, position.Validate(current, submitted))
}

func TestValidate_IncompleteOrder(t *testing.T) {
	current := ids(3)

	err := position.Validate(current, current[:2])

	assert.ErrorIs(t, err, position.ErrIncompleteOrder)
}

func TestValidate_UnknownID(t *testing.T) {
	current := ids(2)
	submitted := []uuid.UUID{current[0], uuid.New()}

	err := position.Validate(current, submitted)

	assert.ErrorIs(t, err, position.ErrUnknownID)
}

func TestValidate_DuplicateID(t *testing.T) {
	current := ids(2)
	submitted := []uuid.UUID{current[0], current[0]}

	err := position.Validate(current, submitted)

	assert.ErrorIs(t, err, position.ErrDuplicateID)
}

func TestValidate_Empty(t *testing.T) {
	assert.NoError(t, position.Validate(nil, nil))
}

func TestRenumber_AssignsDensePositions(t *testing.T) {
	// Columns [A(0), B(1), C(2)] reordered to [C, A, B] must land at
	// C->0, A->1, B->2.
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	placements := position.Renumber([]uuid.UUID{c, a, b})

	assert.Equal(t, []position.Placement{
		{ID: c, Position: 0},
		{ID: a, Position: 1},
		{ID: b, Position: 2},
	}, placements)
}

func TestRenumber_Empty(t *testing.T) {
	assert.Empty(t, position.Renumber(nil))
}

func TestRemove_ClosesGap(t *testing.T) {
	s := ids(3)

	out := position.Remove(s, s[1])

	assert.Equal(t, []uuid.UUID{s[0], s[2]}, out)
	// Input untouched.
	assert.Len(t, s, 3)
}

func TestRemove_AbsentID(t *testing.T) {
	s := ids(2)

	out := position.Remove(s, uuid.New())

	assert.Equal(t, s, out)
}

func TestInsertAt_ShiftsLaterSiblings(t *testing.T) {
	s := ids(2)
	newcomer := uuid.New()

	out := position.InsertAt(s, newcomer, 0)

	assert.Equal(t, []uuid.UUID{newcomer, s[0], s[1]}, out)
}

func TestInsertAt_End(t *testing.T) {
	s := ids(2)
	newcomer := uuid.New()

	out := position.InsertAt(s, newcomer, 2)

	assert.Equal(t, []uuid.UUID{s[0], s[1], newcomer}, out)
}

func TestInsertAt_ClampsOutOfRange(t *testing.T) {
	s := ids(2)
	newcomer := uuid.New()

	assert.Equal(t, newcomer, position.InsertAt(s, newcomer, -5)[0])
	assert.Equal(t, newcomer, position.InsertAt(s, newcomer, 99)[2])
}

func TestInsertAt_EmptyScope(t *testing.T) {
	newcomer := uuid.New()

	out := position.InsertAt(nil, newcomer, 3)

	assert.Equal(t, []uuid.UUID{newcomer}, out)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, position.Clamp(-1, 5))
	assert.Equal(t, 4, position.Clamp(9, 5))
	assert.Equal(t, 2, position.Clamp(2, 5))
	assert.Equal(t, 0, position.Clamp(3, 0))
}

func TestMoveBetweenScopes_PreservesCount(t *testing.T) {
	// Column X holds [c1, c2], column Y holds [c3]; moving c1 to Y at index 0
	// leaves X=[c2] and Y=[c1, c3].
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()
	source := []uuid.UUID{c1, c2}
	dest := []uuid.UUID{c3}

	newSource := position.Remove(source, c1)
	newDest := position.InsertAt(dest, c1, 0)

	assert.Len(t, newSource, 1)
	assert.Len(t, newDest, 2)
	assert.Equal(t, []position.Placement{{ID: c2, Position: 0}}, position.Renumber(newSource))
	assert.Equal(t, []position.Placement{
		{ID: c1, Position: 0},
		{ID: c3, Position: 1},
	}, position.Renumber(newDest))
}

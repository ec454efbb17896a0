package repository_test

import (
	"context"
	"testing"

	"flowboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func expectColumnIDs(mock sqlmock.Sqlmock, ids ...uuid.UUID) {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id.String())
	}
	mock.ExpectQuery(`SELECT "id" FROM "columns" WHERE board_id = .* ORDER BY position`).
		WillReturnRows(rows)
}

func TestColumnRepository_Reorder(t *testing.T) {
	// Arrange: board has columns [A(0), B(1), C(2)]; the client submits
	// [C, A, B], so C->0, A->1, B->2.
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	boardID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectColumnIDs(mock, a, b, c)
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(0, sqlmock.AnyArg(), c).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(1, sqlmock.AnyArg(), a).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(2, sqlmock.AnyArg(), b).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := columnRepo.Reorder(context.Background(), boardID, []uuid.UUID{c, a, b})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Reorder_Idempotent(t *testing.T) {
	// Arrange: re-submitting the already-committed order [C, A, B] writes the
	// exact same position assignment again and changes nothing.
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	boardID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// After the first reorder the board's position-ordered ids are [C, A, B].
	mock.ExpectBegin()
	expectColumnIDs(mock, c, a, b)
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(0, sqlmock.AnyArg(), c).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(1, sqlmock.AnyArg(), a).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET`).
		WithArgs(2, sqlmock.AnyArg(), b).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := columnRepo.Reorder(context.Background(), boardID, []uuid.UUID{c, a, b})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Reorder_UnknownID(t *testing.T) {
	// Arrange: the submitted order names a column that is not on the board.
	// The transaction must roll back without a single write.
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	boardID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectColumnIDs(mock, a, b)
	mock.ExpectRollback()

	// Act
	err := columnRepo.Reorder(context.Background(), boardID, []uuid.UUID{a, uuid.New()})

	// Assert
	assert.ErrorIs(t, err, repository.ErrInvalidOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Reorder_IncompleteList(t *testing.T) {
	// Arrange: a partial list must be rejected, not silently applied.
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	boardID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectColumnIDs(mock, a, b, c)
	mock.ExpectRollback()

	// Act
	err := columnRepo.Reorder(context.Background(), boardID, []uuid.UUID{b, a})

	// Assert
	assert.ErrorIs(t, err, repository.ErrInvalidOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Delete_RenumbersSurvivors(t *testing.T) {
	// Arrange: deleting the column at position 1 must shift later columns
	// down so the board stays gap-free.
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	columnID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "title", "position"}).
			AddRow(columnID.String(), boardID.String(), "In Progress", 1))
	mock.ExpectExec(`DELETE FROM "columns"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET "position"=position - 1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Act
	err := columnRepo.Delete(context.Background(), columnID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

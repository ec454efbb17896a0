package repository_test

import (
	"context"
	"errors"
	"testing"

	"flowboard/internal/model"
	"flowboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCommentRepository_Create_RecordsActivity(t *testing.T) {
	// Arrange: the comment and its comment.added entry commit together.
	gormDB, mock := setupMockDB(t)
	commentRepo := repository.NewCommentRepository(gormDB, repository.NewActivityRepository(gormDB))

	cardID := uuid.New()
	columnID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	expectCardByID(mock, cardID, columnID, 0)
	expectColumnByID(mock, columnID, boardID, "To Do", 0)
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	expectActivityInsert(mock)
	mock.ExpectCommit()

	// Act
	comment := &model.Comment{CardID: cardID, AuthorID: uuid.New(), Content: "Looks good"}
	err := commentRepo.Create(context.Background(), comment)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Create_RollsBackWithAudit(t *testing.T) {
	// Arrange: a failed audit append must take the comment write down with it.
	gormDB, mock := setupMockDB(t)
	commentRepo := repository.NewCommentRepository(gormDB, repository.NewActivityRepository(gormDB))

	cardID := uuid.New()
	columnID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	expectCardByID(mock, cardID, columnID, 0)
	expectColumnByID(mock, columnID, boardID, "To Do", 0)
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(`INSERT INTO "activity_logs"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	// Act
	comment := &model.Comment{CardID: cardID, AuthorID: uuid.New(), Content: "Looks good"}
	err := commentRepo.Create(context.Background(), comment)

	// Assert
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

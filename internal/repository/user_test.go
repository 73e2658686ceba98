package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"cafehub/internal/models"
	"cafehub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 LIMIT $2`)

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantUsername string
		wantCode     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "ada", "ada@example.com")
				mock.ExpectQuery(query).WithArgs(1, 1).WillReturnRows(rows)
			},
			wantUsername: "ada",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(99, 1).WillReturnError(gorm.ErrRecordNotFound)
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:   "Driver Failure",
			userID: 5,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(5, 1).WillReturnError(errors.New("connection reset"))
			},
			wantCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.wantCode != "" {
				assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.wantUsername, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByUsername(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_PostgresUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "ada", Email: "ada@example.com", FirstName: "Ada", HashedPassword: "x"})
	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
	assert.Contains(t, err.Error(), "email already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SQLiteRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "ada", Email: "ada@example.com", FirstName: "Ada", HashedPassword: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	byName, err := repo.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, models.DefaultUserImage, byName.ImageURL)
	assert.False(t, byName.Admin)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	dup := &models.User{Username: "ada", Email: "other@example.com", FirstName: "Ada", HashedPassword: "hash"}
	err = repo.Create(ctx, dup)
	assert.True(t, models.HasCode(err, models.CodeConflict))
	assert.Contains(t, err.Error(), "username already taken")

	byName.Description = "Enjoys flat whites"
	require.NoError(t, repo.Update(ctx, byName))
	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enjoys flat whites", reloaded.Description)
}

func TestIsUniqueConstraintError(t *testing.T) {
	t.Parallel()

	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
	assert.False(t, isUniqueConstraintError(errors.New("timeout")))
}

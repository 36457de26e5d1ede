package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
)

func TestContactRepository_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := &ContactRepository{DB: db}
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "phone", "contact_group", "notes", "created_at", "updated_at"}).
		AddRow("k3", "u1", "Carla", "5491133334444", "vip", "", now, now).
		AddRow("k1", "u1", "Ana", "5491111112222", "vip", "cliente", now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM contacts")).WithArgs("u1").WillReturnRows(rows)

	contacts, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Carla", contacts[0].Name)
	assert.Equal(t, "vip", contacts[1].Group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_CreateAndUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := &ContactRepository{DB: db}
	ctx := context.Background()
	c := &model.Contact{ID: "k1", OwnerID: "u1", Name: "Ana", Phone: "5491111112222", Group: "vip"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs("k1", "u1", "Ana", "5491111112222", "vip", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contacts")).
		WithArgs("Ana María", "5491111112222", "vip", "", sqlmock.AnyArg(), "k1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(ctx, c))
	c.Name = "Ana María"
	require.NoError(t, repo.Update(ctx, c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_GetByID_OtherOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := &ContactRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND owner_id = $2")).
		WithArgs("k1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "u2", "k1")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestTemplateRepository_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := &TemplateRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE templates")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Template{ID: "t9", OwnerID: "u1", Body: "x"})
	assert.True(t, appErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := &TemplateRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM templates WHERE owner_id=$1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "category", "body", "image_url", "created_at", "updated_at"}).
			AddRow("t1", "u1", "Promo", "promotion", "Hola {{nombre}}", "", now, now))

	templates, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Hola {{nombre}}", templates[0].Body)
}

func TestMessageRepository_CreateDefaults(t *testing.T) {
	db, mock := newMock(t)
	repo := &MessageRepository{DB: db}
	msg := &model.Message{ID: "m1", OwnerID: "u1", ContactID: "k1", TemplateID: "t1"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs("m1", "u1", "k1", "t1", nil, model.MessageStatusSent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), msg))
	assert.Equal(t, model.MessageStatusSent, msg.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{ID: "u1", Email: "a@b.co", PasswordHash: "h"})
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@x.co").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "disabled", "created_at"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.co")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "disabled", "created_at"}).
			AddRow("u1", "a@b.co", "h", true, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "disabled", "created_at"}))

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", u.Email)
	assert.True(t, u.Disabled)

	_, err = repo.GetByID(context.Background(), "u2")
	assert.True(t, appErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

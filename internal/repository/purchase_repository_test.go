package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicktickets/backend/internal/model"
)

// Statement patterns the mock matches against (regexp, so ? is escaped).
const (
	decrementStmt   = `UPDATE events SET availability = availability - \? WHERE id = \? AND availability >= \?`
	existsStmt      = `SELECT 1 FROM events WHERE id = \?`
	orderInsertStmt = `INSERT INTO orders`
	ticketBatchStmt = `INSERT INTO tickets`
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newMockPurchaseRepo(db *sql.DB) *PurchaseRepo {
	return NewPurchaseRepo(db, NewEventRepo(db), NewOrderRepo(db), NewTicketRepo(db))
}

func TestDecrementAvailabilityGuardedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	events := NewEventRepo(db)

	mock.ExpectBegin()
	// The quantity appears both as the decrement and in the guard, so
	// the check and the write are one statement.
	mock.ExpectExec(decrementStmt).WithArgs(3, "event-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, events.DecrementAvailabilityTx(context.Background(), tx, "event-1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementExhaustedEvent(t *testing.T) {
	db, mock := newMockDB(t)
	events := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(decrementStmt).WithArgs(6, "event-1", 6).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(existsStmt).WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	tx, err := db.Begin()
	require.NoError(t, err)
	err = events.DecrementAvailabilityTx(context.Background(), tx, "event-1", 6)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementUnknownEvent(t *testing.T) {
	db, mock := newMockDB(t)
	events := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(decrementStmt).WithArgs(1, "ghost", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(existsStmt).WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	tx, err := db.Begin()
	require.NoError(t, err)
	err = events.DecrementAvailabilityTx(context.Background(), tx, "ghost", 1)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func testPurchase(quantity int) (*model.Order, []model.Ticket) {
	order := &model.Order{EventID: "event-1", BuyerID: "buyer-1", Quantity: quantity}
	tickets := make([]model.Ticket, quantity)
	for i := range tickets {
		tickets[i] = model.Ticket{
			ID:        "ticket-" + string(rune('a'+i)),
			EventID:   "event-1",
			BuyerID:   "buyer-1",
			QRPayload: "https://tickets.example.com/v1/tickets/ticket-" + string(rune('a'+i)),
		}
	}
	return order, tickets
}

func TestPurchaseCommitsDecrementOrderAndTicketsTogether(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newMockPurchaseRepo(db)
	order, tickets := testPurchase(2)

	mock.ExpectBegin()
	mock.ExpectExec(decrementStmt).WithArgs(2, "event-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(orderInsertStmt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(ticketBatchStmt).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Execute(context.Background(), order, tickets))
	assert.NotEmpty(t, order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRollsBackWhenSoldOut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newMockPurchaseRepo(db)
	order, tickets := testPurchase(5)

	mock.ExpectBegin()
	mock.ExpectExec(decrementStmt).WithArgs(5, "event-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(existsStmt).WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Execute(context.Background(), order, tickets)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
	// ExpectationsWereMet also proves no order or ticket insert ran.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRollsBackOnTicketInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newMockPurchaseRepo(db)
	order, tickets := testPurchase(2)

	mock.ExpectBegin()
	mock.ExpectExec(decrementStmt).WithArgs(2, "event-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(orderInsertStmt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(ticketBatchStmt).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Execute(context.Background(), order, tickets)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

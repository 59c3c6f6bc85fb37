package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domain"
)

func newFineFixture() (*testStores, FineService) {
	ts := newTestStores()
	return ts, NewFineService(ts.fines, ts.users)
}

func TestPayFine_Success(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	fine := &domain.Fine{ID: 31, LoanID: 11, UserID: 7, AmountCents: 500, Status: domain.FineStatusPending}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)
	ts.fines.On("Update", ctx, fine).Return(nil)

	paid, err := svc.Pay(ctx, librarian, 31)
	require.NoError(t, err)
	assert.Equal(t, domain.FineStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidDate)
	ts.assertExpectations(t)
}

func TestPayFine_PatronForbidden(t *testing.T) {
	_, svc := newFineFixture()
	ctx := context.Background()

	_, err := svc.Pay(ctx, domain.Actor{UserID: 7, Role: domain.RolePatron}, 31)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPayFine_AlreadyPaid(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	paidOn := time.Now().AddDate(0, 0, -1)
	fine := &domain.Fine{ID: 31, Status: domain.FineStatusPaid, PaidDate: &paidOn}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)

	_, err := svc.Pay(ctx, librarian, 31)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	ts.fines.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPayFine_WaivedFineMayStillBePaid(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	fine := &domain.Fine{ID: 31, LoanID: 11, UserID: 7, AmountCents: 500, Status: domain.FineStatusWaived}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)
	ts.fines.On("Update", ctx, fine).Return(nil)

	paid, err := svc.Pay(ctx, librarian, 31)
	require.NoError(t, err)
	assert.Equal(t, domain.FineStatusPaid, paid.Status)
	ts.assertExpectations(t)
}

func TestWaiveFine_Success(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	fine := &domain.Fine{ID: 31, LoanID: 11, UserID: 7, AmountCents: 500, Status: domain.FineStatusPending}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)
	ts.fines.On("Update", ctx, fine).Return(nil)

	waived, err := svc.Waive(ctx, librarian, 31)
	require.NoError(t, err)
	assert.Equal(t, domain.FineStatusWaived, waived.Status)
	assert.Nil(t, waived.PaidDate)
	ts.assertExpectations(t)
}

func TestWaiveFine_PaidFineRejected(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	fine := &domain.Fine{ID: 31, Status: domain.FineStatusPaid}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)

	_, err := svc.Waive(ctx, librarian, 31)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	ts.fines.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestWaiveFine_Idempotent(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	fine := &domain.Fine{ID: 31, Status: domain.FineStatusWaived}
	ts.fines.On("GetByID", ctx, int32(31)).Return(fine, nil)

	waived, err := svc.Waive(ctx, librarian, 31)
	require.NoError(t, err)
	assert.Equal(t, domain.FineStatusWaived, waived.Status)
	ts.fines.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMyFines_FiltersByStatus(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	pending := domain.FineStatusPending
	ts.fines.On("ListByUserAndStatus", ctx, int32(7), pending).Return([]domain.Fine{{ID: 31}}, nil)

	fines, err := svc.MyFines(ctx, patron, &pending)
	require.NoError(t, err)
	assert.Len(t, fines, 1)
	ts.assertExpectations(t)
}

func TestFinesForUser_RequiresSelfOrLibrarian(t *testing.T) {
	ts, svc := newFineFixture()
	ctx := context.Background()

	_, err := svc.FinesForUser(ctx, domain.Actor{UserID: 2, Role: domain.RolePatron}, 7, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ts.users.On("GetByID", ctx, int32(7)).Return(&domain.User{ID: 7}, nil)
	ts.fines.On("ListByUser", ctx, int32(7)).Return([]domain.Fine{}, nil)
	_, err = svc.FinesForUser(ctx, domain.Actor{UserID: 7, Role: domain.RolePatron}, 7, nil)
	assert.NoError(t, err)
	ts.assertExpectations(t)
}

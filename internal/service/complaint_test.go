package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusmess/messreview/internal/domain"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

func newComplaintTestService() (*ComplaintService, *mockComplaintRepository, *mockTargetRepository) {
	complaints := new(mockComplaintRepository)
	targets := new(mockTargetRepository)
	svc := NewComplaintService(complaints, targets, newTestProducer(), newTestLogger())
	return svc, complaints, targets
}

func TestComplaintService_Create_Success(t *testing.T) {
	svc, complaints, targets := newComplaintTestService()
	ctx := context.Background()

	targets.On("GetByID", ctx, "outlet-1").Return(outletTarget(), nil)
	complaints.On("Create", ctx, mock.MatchedBy(func(c *domain.Complaint) bool {
		return c.OutletID == "outlet-1" &&
			c.OutletName == "North Mess" &&
			c.AuthorID != nil && *c.AuthorID == "user-1" &&
			!c.IsAnonymous &&
			!c.IsResolved
	})).Return(nil)

	result, err := svc.Create(ctx, userActor(), CreateComplaintInput{
		OutletID:  "outlet-1",
		Text:      "Found a hair in the sambar",
		Anonymous: false,
	})

	require.NoError(t, err)
	assert.Equal(t, "North Mess", result.OutletName)
	assert.Equal(t, "Priya", result.UserName)
	complaints.AssertExpectations(t)
}

func TestComplaintService_Create_AnonymousIsRedacted(t *testing.T) {
	svc, complaints, targets := newComplaintTestService()
	ctx := context.Background()

	targets.On("GetByID", ctx, "outlet-1").Return(outletTarget(), nil)
	complaints.On("Create", ctx, mock.MatchedBy(func(c *domain.Complaint) bool {
		return c.IsAnonymous
	})).Return(nil)

	result, err := svc.Create(ctx, userActor(), CreateComplaintInput{
		OutletID:  "outlet-1",
		Text:      "Stale bread at breakfast",
		Anonymous: true,
	})

	require.NoError(t, err)
	assert.Nil(t, result.AuthorID)
	assert.Equal(t, domain.AnonymousUserName, result.UserName)
}

func TestComplaintService_Create_Unauthenticated(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	_, err := svc.Create(context.Background(), domain.Actor{}, CreateComplaintInput{
		OutletID: "outlet-1",
		Text:     "No water",
	})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	complaints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestComplaintService_Create_EmptyText(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	_, err := svc.Create(context.Background(), userActor(), CreateComplaintInput{
		OutletID: "outlet-1",
		Text:     "   ",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	complaints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestComplaintService_Create_OutletNotFound(t *testing.T) {
	svc, _, targets := newComplaintTestService()
	ctx := context.Background()

	targets.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Create(ctx, userActor(), CreateComplaintInput{
		OutletID: "missing",
		Text:     "No salt",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestComplaintService_Create_AgainstFoodItem(t *testing.T) {
	svc, complaints, targets := newComplaintTestService()
	ctx := context.Background()

	targets.On("GetByID", ctx, "item-1").Return(foodItemTarget(), nil)

	_, err := svc.Create(ctx, userActor(), CreateComplaintInput{
		OutletID: "item-1",
		Text:     "Undercooked",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	complaints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestComplaintService_Resolve_RequiresAdmin(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	_, err := svc.Resolve(context.Background(), userActor(), "complaint-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	complaints.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestComplaintService_Resolve_Success(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	resolved := &domain.Complaint{
		ID:            "complaint-1",
		OutletID:      "outlet-1",
		OutletName:    "North Mess",
		AuthorID:      strPtr("user-1"),
		UserName:      "Priya",
		ComplaintText: "Cold food",
		IsResolved:    true,
	}
	complaints.On("Resolve", ctx, "complaint-1").Return(resolved, nil)

	result, err := svc.Resolve(ctx, adminActor(), "complaint-1")

	require.NoError(t, err)
	assert.True(t, result.IsResolved)
	assert.Equal(t, domain.StatusFilterResolved, result.Status())
	complaints.AssertExpectations(t)
}

func TestComplaintService_Resolve_AlreadyResolvedIsIdempotent(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	resolved := &domain.Complaint{ID: "complaint-1", OutletID: "outlet-1", IsResolved: true}
	complaints.On("Resolve", ctx, "complaint-1").Return(resolved, nil).Twice()

	first, err := svc.Resolve(ctx, adminActor(), "complaint-1")
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, adminActor(), "complaint-1")
	require.NoError(t, err)

	assert.True(t, first.IsResolved)
	assert.True(t, second.IsResolved)
	complaints.AssertExpectations(t)
}

func TestComplaintService_Resolve_NotFound(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	complaints.On("Resolve", ctx, "missing").Return(nil, apperrors.NotFound("complaint", "missing"))

	_, err := svc.Resolve(ctx, adminActor(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestComplaintService_Delete_RequiresAdmin(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	err := svc.Delete(context.Background(), userActor(), "complaint-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	complaints.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestComplaintService_Delete_Success(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	existing := &domain.Complaint{ID: "complaint-1", OutletID: "outlet-1", OutletName: "North Mess"}
	complaints.On("GetByID", ctx, "complaint-1").Return(existing, nil)
	complaints.On("Delete", ctx, "complaint-1").Return(nil)

	err := svc.Delete(ctx, adminActor(), "complaint-1")

	require.NoError(t, err)
	complaints.AssertExpectations(t)
}

func TestComplaintService_Delete_NotFound(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	complaints.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	err := svc.Delete(ctx, adminActor(), "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	complaints.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestComplaintService_List_RequiresAdmin(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	_, err := svc.List(context.Background(), userActor(), domain.StatusFilterAll, domain.GroupByNone)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	complaints.AssertNotCalled(t, "List", mock.Anything)
}

func TestComplaintService_List_InvalidFilters(t *testing.T) {
	svc, _, _ := newComplaintTestService()
	ctx := context.Background()

	_, err := svc.List(ctx, adminActor(), "OPEN", domain.GroupByNone)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.List(ctx, adminActor(), domain.StatusFilterAll, "mess")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestComplaintService_List_GroupedByOutlet(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()
	ctx := context.Background()

	all := []domain.Complaint{
		{ID: "c1", OutletID: "outlet-1", OutletName: "North Mess", IsResolved: false, IsAnonymous: true},
		{ID: "c2", OutletID: "outlet-2", OutletName: "Campus Cafe", IsResolved: true, AuthorID: strPtr("user-2"), UserName: "Rahul"},
		{ID: "c3", OutletID: "outlet-1", OutletName: "North Mess", IsResolved: false, AuthorID: strPtr("user-1"), UserName: "Priya"},
	}
	complaints.On("List", ctx).Return(all, nil)

	listing, err := svc.List(ctx, adminActor(), domain.StatusFilterPending, domain.GroupByOutlet)

	require.NoError(t, err)
	// Stats always cover the full set, not the filtered one.
	assert.Equal(t, domain.ComplaintStats{Total: 3, Pending: 2, Resolved: 1}, listing.Stats)
	require.Len(t, listing.Groups, 1)
	assert.Equal(t, "North Mess", listing.Groups[0].Label)
	assert.Equal(t, 2, listing.Groups[0].Count)
	assert.Equal(t, domain.AnonymousUserName, listing.Groups[0].Complaints[0].UserName)
}

func TestComplaintService_ListByOutlet_Redacts(t *testing.T) {
	svc, complaints, targets := newComplaintTestService()
	ctx := context.Background()

	targets.On("GetByID", ctx, "outlet-1").Return(outletTarget(), nil)
	complaints.On("ListByOutlet", ctx, "outlet-1").Return([]domain.Complaint{
		{ID: "c1", OutletID: "outlet-1", IsAnonymous: true},
		{ID: "c2", OutletID: "outlet-1", AuthorID: strPtr("user-1"), UserName: "Priya"},
	}, nil)

	result, err := svc.ListByOutlet(ctx, adminActor(), "outlet-1")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, domain.AnonymousUserName, result[0].UserName)
	assert.Equal(t, "Priya", result[1].UserName)
}

func TestComplaintService_ListByOutlet_RequiresAdmin(t *testing.T) {
	svc, complaints, _ := newComplaintTestService()

	_, err := svc.ListByOutlet(context.Background(), userActor(), "outlet-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	complaints.AssertNotCalled(t, "ListByOutlet", mock.Anything, mock.Anything)
}

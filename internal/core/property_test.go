package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/model"
)

func TestPropertyService_ListFeatured(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)
	ctx := context.Background()

	loft := model.Property{ID: "p1", TenantID: "t-1", Title: "Loft", Price: 245000, Currency: "USD", Bedrooms: 2, Featured: true}
	db.On("Query", ctx, sqlContains("AND featured"), []any{"t-1", 6}).Return(newMockRows(propertyScan(loft)), nil)

	props, err := svc.ListFeatured(ctx, "t-1", 6)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, loft, props[0])
	db.AssertExpectations(t)
}

func TestPropertyService_ListRecent_Empty(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), []any{"t-1", 3}).Return(newEmptyMockRows(), nil)

	props, err := svc.ListRecent(ctx, "t-1", 3)
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestPropertyService_List_QueryError(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("pool closed"))

	_, err := svc.ListRecent(ctx, "t-1", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list recent properties")
}

func TestPropertyService_List_RowsError(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)
	ctx := context.Background()

	rows := newEmptyMockRows()
	rows.err = errors.New("conn lost")
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	_, err := svc.ListFeatured(ctx, "t-1", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterate properties")
}

func TestPropertyService_Create(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContains("INSERT INTO properties"), mock.MatchedBy(func(args []any) bool {
		return len(args) == 13 && args[0] == "p1" && args[1] == "t-1"
	})).Return(commandTag("INSERT 0 1"), nil)

	require.NoError(t, svc.Create(ctx, &model.Property{ID: "p1", TenantID: "t-1", Title: "Loft"}))
	db.AssertExpectations(t)
}

func TestPropertyService_ForSections(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)

	featured := model.Property{ID: "f1", Title: "Featured", Featured: true}
	recent := model.Property{ID: "r1", Title: "Recent"}
	db.On("Query", mock.Anything, sqlContains("AND featured"), []any{"t-1", 4}).Return(newMockRows(propertyScan(featured)), nil)
	db.On("Query", mock.Anything, sqlContains("WHERE tenant_id = $1 ORDER BY"), []any{"t-1", 2}).Return(newMockRows(propertyScan(recent)), nil)

	got, err := svc.ForSections(context.Background(), "t-1", content.Needs{Featured: true, FeaturedLimit: 4, Recent: true, RecentLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, []model.Property{featured}, got.Featured)
	assert.Equal(t, []model.Property{recent}, got.Recent)
	db.AssertExpectations(t)
}

func TestPropertyService_ForSections_NothingNeeded(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)

	got, err := svc.ForSections(context.Background(), "t-1", content.Needs{})
	require.NoError(t, err)
	assert.Empty(t, got.Featured)
	assert.Empty(t, got.Recent)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyService_ForSections_Error(t *testing.T) {
	db := &mockDB{}
	svc := NewPropertyService(db)

	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("down"))

	_, err := svc.ForSections(context.Background(), "t-1", content.Needs{Featured: true, FeaturedLimit: 6})
	require.Error(t, err)
}

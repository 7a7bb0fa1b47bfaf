package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestListFilter_Validate_Defaults(t *testing.T) {
	filter := ListFilter{}

	require.NoError(t, filter.Validate())

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, "desc", filter.SortOrder)
}

func TestListFilter_Validate_LimitCap(t *testing.T) {
	filter := ListFilter{Limit: 101}
	assert.Error(t, filter.Validate())
}

func TestListFilter_Validate_InvalidKind(t *testing.T) {
	filter := ListFilter{Kind: strPtr("lunch")}
	assert.Error(t, filter.Validate())
}

func TestListFilter_Validate_InvalidDates(t *testing.T) {
	filter := ListFilter{StartDate: strPtr("2026/03/01")}
	assert.Error(t, filter.Validate())

	filter = ListFilter{EndDate: strPtr("03-01-2026")}
	assert.Error(t, filter.Validate())
}

func TestListFilter_Validate_Full(t *testing.T) {
	filter := ListFilter{
		StartDate: strPtr("2026-03-01"),
		EndDate:   strPtr("2026-03-31"),
		Kind:      strPtr("check_in"),
		Page:      2,
		Limit:     50,
		SortOrder: "ASC",
	}

	assert.NoError(t, filter.Validate())
}

func TestUpdateEventRequest_Validate_RequiresAField(t *testing.T) {
	req := UpdateEventRequest{ID: "evt-1"}
	assert.Error(t, req.Validate())
}

func TestUpdateEventRequest_Validate_InvalidKind(t *testing.T) {
	req := UpdateEventRequest{ID: "evt-1", Kind: strPtr("break")}
	assert.Error(t, req.Validate())
}

func TestUpdateEventRequest_Validate_InvalidTimestamp(t *testing.T) {
	req := UpdateEventRequest{ID: "evt-1", Timestamp: strPtr("2026-03-03 10:00:00")}
	assert.Error(t, req.Validate())
}

func TestUpdateEventRequest_Validate_OK(t *testing.T) {
	req := UpdateEventRequest{
		ID:        "evt-1",
		Kind:      strPtr("check_out"),
		Timestamp: strPtr("2026-03-03T10:00:00Z"),
	}
	assert.NoError(t, req.Validate())
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindCheckIn.Valid())
	assert.True(t, KindCheckOut.Valid())
	assert.False(t, Kind("break").Valid())
	assert.False(t, Kind("").Valid())
}

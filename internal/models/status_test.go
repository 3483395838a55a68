package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusProcessing, StatusProcessing, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusPending, OrderStatus("shipped"), false},
		{OrderStatus(""), StatusProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestApplyTransition(t *testing.T) {
	tracking := &TrackingInfo{Carrier: "Royal Mail", TrackingNumber: "RM123456789GB"}

	tests := []struct {
		name     string
		from, to OrderStatus
		tracking *TrackingInfo
		want     *TrackingInfo
		err      error
	}{
		{"pending to processing", StatusPending, StatusProcessing, nil, nil, nil},
		{"tracking dropped before completed", StatusPending, StatusProcessing, tracking, nil, nil},
		{"completed with tracking", StatusProcessing, StatusCompleted, tracking, tracking, nil},
		{"completed without tracking", StatusProcessing, StatusCompleted, nil, nil, ErrTrackingRequired},
		{"pending straight to completed", StatusPending, StatusCompleted, tracking, tracking, nil},
		{"backward move", StatusCompleted, StatusProcessing, nil, nil, ErrInvalidTransition},
		{"no self transition", StatusProcessing, StatusProcessing, nil, nil, ErrInvalidTransition},
		{"unknown target", StatusPending, OrderStatus("shipped"), nil, nil, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyTransition(tt.from, tt.to, tt.tracking)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusProcessing.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, OrderStatus("cancelled").Valid())
	assert.False(t, OrderStatus("").Valid())
}

package model

import (
	"errors"
	"testing"
	"time"
)

func TestRouteValidate(t *testing.T) {
	dep := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		route   Route
		wantErr error
	}{
		{
			name:  "valid",
			route: Route{SourceID: 1, DestinationID: 2, DepartureTime: dep, ArrivalTime: dep.Add(4 * time.Hour)},
		},
		{
			name:    "arrival before departure",
			route:   Route{SourceID: 1, DestinationID: 2, DepartureTime: dep, ArrivalTime: dep.Add(-time.Hour)},
			wantErr: ErrBadSchedule,
		},
		{
			name:    "arrival equals departure",
			route:   Route{SourceID: 1, DestinationID: 2, DepartureTime: dep, ArrivalTime: dep},
			wantErr: ErrBadSchedule,
		},
		{
			name:    "same source and destination",
			route:   Route{SourceID: 1, DestinationID: 1, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)},
			wantErr: ErrSameStation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

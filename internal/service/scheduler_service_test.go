package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07:30", want: "0 30 7 * * *"},
		{in: " 23:05 ", want: "0 5 23 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulerServiceScheduleDaily(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())

	_, err := s.ScheduleDaily("25:00", func() {})
	assert.Error(t, err)

	id, err := s.ScheduleDaily("07:30", func() {})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next(id)
	require.False(t, next.IsZero())
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 30, next.Minute())
}

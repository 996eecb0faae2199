package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeGrace(t *testing.T) {
	tests := []struct {
		name        string
		period      int
		customGrace int
		want        int
	}{
		{name: "half period", period: 300, customGrace: 0, want: 150},
		{name: "minimum floor on small period", period: 60, customGrace: 0, want: 60},
		{name: "rounds half period", period: 90, customGrace: 0, want: 60},
		{name: "large period", period: 3600, customGrace: 0, want: 1800},
		{name: "daily period", period: 86400, customGrace: 0, want: 43200},
		{name: "custom below floor is raised", period: 300, customGrace: 30, want: 60},
		{name: "custom above floor wins", period: 300, customGrace: 120, want: 120},
		{name: "custom wins even when smaller than computed", period: 3600, customGrace: 90, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComputeGrace(tt.period, tt.customGrace))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "30s", FormatDuration(30))
	require.Equal(t, "1m", FormatDuration(60))
	require.Equal(t, "5m", FormatDuration(300))
	require.Equal(t, "2h", FormatDuration(7200))
	require.Equal(t, "7d", FormatDuration(604800))
}

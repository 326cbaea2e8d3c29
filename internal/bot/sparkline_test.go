package bot

import "testing"

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"Empty", nil, ""},
		{"Single value", []float64{41.5}, "▅"},
		{"Flat series", []float64{40, 40, 40}, "▅▅▅"},
		{"Ramp", []float64{1, 2, 3, 4, 5, 6, 7, 8}, "▁▂▃▄▅▆▇█"},
		{"Extremes", []float64{0, 100, 0}, "▁█▁"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values); got != tt.want {
				t.Errorf("Sparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

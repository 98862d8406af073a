package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		needed   int
		scale    float64
		want     int
	}{
		{"empty container grows to needed", 0, 1, 50, 1},
		{"zero scale still progresses", 4, 5, 0, 5},
		{"fifty percent", 4, 5, 50, 6},
		{"fifty percent rounds up", 3, 4, 50, 5},
		{"hundred percent doubles", 8, 9, 100, 16},
		{"fractional scale", 10, 11, 12.5, 12},
		{"needed beyond scaled", 2, 10, 50, 10},
		{"negative scale treated as zero", 4, 5, -10, 5},
		{"nan scale treated as zero", 4, 5, math.NaN(), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.capacity, tt.needed, tt.scale))
		})
	}
}

func TestNext_Saturates(t *testing.T) {
	got := Next(math.MaxInt/2+1, math.MaxInt/2+2, 300)
	assert.Equal(t, math.MaxInt, got)
}

func TestNext_AlwaysProgresses(t *testing.T) {
	for capacity := 0; capacity < 200; capacity++ {
		for _, scale := range []float64{0, 1, 25, 50, 100, 250} {
			next := Next(capacity, capacity+1, scale)
			if next <= capacity {
				t.Fatalf("capacity %d scale %v: next %d does not grow", capacity, scale, next)
			}
		}
	}
}

func TestValidScale(t *testing.T) {
	assert.True(t, ValidScale(0))
	assert.True(t, ValidScale(50))
	assert.False(t, ValidScale(-1))
	assert.False(t, ValidScale(math.NaN()))
	assert.False(t, ValidScale(math.Inf(1)))
}

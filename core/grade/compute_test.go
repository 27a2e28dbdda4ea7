package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestComputeFinal(t *testing.T) {
	tests := []struct {
		name       string
		c1, c2, c3 null.Float64
		want       null.Float64
	}{
		{
			name: "all cortes present",
			c1:   null.Float64From(3), c2: null.Float64From(4), c3: null.Float64From(5),
			want: null.Float64From(4.05), // 0.3*3 + 0.35*4 + 0.35*5
		},
		{
			name: "rounded to two decimals",
			c1:   null.Float64From(3.33), c2: null.Float64From(4.44), c3: null.Float64From(2.22),
			want: null.Float64From(3.33),
		},
		{
			name: "perfect score stays in range",
			c1:   null.Float64From(5), c2: null.Float64From(5), c3: null.Float64From(5),
			want: null.Float64From(5),
		},
		{
			name: "zeroes count as scores",
			c1:   null.Float64From(0), c2: null.Float64From(0), c3: null.Float64From(0),
			want: null.Float64From(0),
		},
		{
			name: "absent when nothing set",
		},
		{
			name: "absent when one corte missing",
			c1:   null.Float64From(5), c2: null.Float64From(5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeFinal(tt.c1, tt.c2, tt.c3))
		})
	}
}

func TestValidPartial(t *testing.T) {
	for _, score := range []float64{0, 2.5, 5} {
		assert.True(t, ValidPartial(score), score)
	}
	for _, score := range []float64{-0.01, 5.01, 100} {
		assert.False(t, ValidPartial(score), score)
	}
}

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults on zero", 0, 0, DefaultPage, DefaultLimit, 0},
		{"negative page resets", -3, 10, DefaultPage, 10, 0},
		{"limit clamped to max", 2, 10000, 2, MaxLimit, MaxLimit},
		{"plain values pass through", 3, 50, 3, 50, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Normalize(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClamps(t *testing.T) {
	p := NewPage(0, 0)
	assert.Equal(t, Page{Number: 1, Size: 1}, p)
	assert.Equal(t, 24, NewPage(3, 12).Offset())
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		wantLast int
	}{
		{"empty", 0, 10, 1},
		{"exact", 20, 10, 2},
		{"partial", 21, 10, 3},
		{"single", 1, 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginated[int](nil, NewPage(1, tt.size), tt.total)
			assert.Equal(t, tt.wantLast, p.LastPage)
			assert.NotNil(t, p.Data)
			assert.Equal(t, tt.size, p.PerPage)
		})
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	p := Paginate(all, NewPage(2, 2))
	assert.Equal(t, []int{3, 4}, p.Data)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.LastPage)

	assert.Empty(t, Paginate(all, NewPage(4, 2)).Data)
}

func TestHugePageNumberKeepsOffsetPositive(t *testing.T) {
	for _, size := range []int{1, 10, 12} {
		p := NewPage(math.MaxInt, size)
		assert.GreaterOrEqual(t, p.Offset(), 0, "size %d", size)
		assert.Empty(t, Paginate([]int{1, 2, 3}, p).Data)
	}
}

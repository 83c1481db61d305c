package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFixed(t *testing.T) {
	cases := []struct {
		row, col, factor int
		want             bool
	}{
		{2, 2, 1, true},
		{7, 8, 1, true},
		{8, 2, 1, false}, // 极板不含 8*factor 行
		{1, 2, 1, false},
		{4, 5, 1, false},
		{0, 0, 1, false}, // 外边界由遍历范围保证
		{4, 4, 2, true},
		{15, 16, 2, true},
		{16, 16, 2, false},
		{10, 5, 2, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsFixed(tc.row, tc.col, tc.factor), "IsFixed(%d, %d, %d)", tc.row, tc.col, tc.factor)
	}
}

// 掩码的列区间与逐点判断一致，并且覆盖且仅覆盖内部非极板点
func TestMask_SpansMatchPredicate(t *testing.T) {
	for _, factor := range []int{1, 2, 3} {
		m := NewMask(factor)
		rows, cols := Dims(factor)
		for r := 1; r < rows-1; r++ {
			covered := make([]bool, cols)
			for _, sp := range m.Spans(r) {
				for c := sp.From; c < sp.To; c++ {
					assert.False(t, covered[c], "column %d covered twice in row %d", c, r)
					covered[c] = true
				}
			}
			for c := 0; c < cols; c++ {
				interior := c >= 1 && c <= cols-2
				want := interior && !m.IsFixed(r, c)
				assert.Equal(t, want, covered[c], "factor %d row %d col %d", factor, r, c)
			}
		}
	}
}

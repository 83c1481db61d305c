package calculator

import "capacitor/model"

// IsFixed 判断 (row, col) 是否位于极板上
// 最外层边界不在此判断，由遍历范围保证不被修改
func IsFixed(row, col, factor int) bool {
	if row < model.PlateLow*factor || row >= model.PlateHigh*factor {
		return false
	}
	return col == model.PlateLow*factor || col == model.PlateHigh*factor
}

// Span 一行中需要更新的连续列区间 [From, To)
type Span struct {
	From int
	To   int
}

// Mask 预计算的边界掩码，只与 factor 有关
// 每一行保存需要更新的列区间，遍历时跳过极板而不需要逐点判断
type Mask struct {
	factor int
	rows   int
	cols   int

	open  []Span // 不经过极板的行
	plate []Span // 经过极板的行
}

func NewMask(factor int) *Mask {
	rows, cols := Dims(factor)
	left, right := model.PlateLow*factor, model.PlateHigh*factor
	return &Mask{
		factor: factor,
		rows:   rows,
		cols:   cols,
		open:   []Span{{1, cols - 1}},
		plate:  []Span{{1, left}, {left + 1, right}, {right + 1, cols - 1}},
	}
}

func (m *Mask) IsFixed(row, col int) bool {
	return IsFixed(row, col, m.factor)
}

// Spans 返回第 row 行内部可更新的列区间
func (m *Mask) Spans(row int) []Span {
	if row >= model.PlateLow*m.factor && row < model.PlateHigh*m.factor {
		return m.plate
	}
	return m.open
}

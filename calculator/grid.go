package calculator

import (
	"fmt"

	"capacitor/model"
)

// MaxFactor 缩放系数上限，对应 4000x4001 个格点
const MaxFactor = 400

// checkScale factor 必须在 [1, MaxFactor] 内，超出上限时网格大小会溢出或占用过多内存
func checkScale(factor int) error {
	if factor < 1 || factor > MaxFactor {
		return fmt.Errorf("factor %d not in [1, %d]: %w", factor, MaxFactor, ErrInvalidScale)
	}
	return nil
}

// Dims 返回给定缩放因子下网格的行数和列数
func Dims(factor int) (rows, cols int) {
	return model.GridUnit * factor, model.GridUnit*factor + 1
}

// BuildGrid 生成初始电势场
// 整个网格先赋值为 boundary，再写入两块极板：
// 2*factor 列为 v1，8*factor 列为 v2，行范围 [2*factor, 8*factor)
func BuildGrid(factor int, v1, v2, boundary float64) (*model.Field, error) {
	if err := checkScale(factor); err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	rows, cols := Dims(factor)
	f := model.NewField(rows, cols)
	if boundary != 0 {
		for i := range f.Data {
			f.Data[i] = boundary
		}
	}

	left, right := model.PlateLow*factor, model.PlateHigh*factor
	for r := model.PlateLow * factor; r < model.PlateHigh*factor; r++ {
		f.Set(r, left, v1)
		f.Set(r, right, v2)
	}
	return f, nil
}

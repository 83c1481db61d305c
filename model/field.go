package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyField = errors.New("model: field must have at least one row and one column")
	ErrRagged     = errors.New("model: all rows must have the same length")
)

// Field 电势场，按行优先存储在一维数组中，下标为 r*Cols + c
type Field struct {
	Rows int
	Cols int
	Data []float64
}

func NewField(rows, cols int) *Field {
	return &Field{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// FieldFromRows 由二维切片构建电势场，各行长度必须一致
func FieldFromRows(rows [][]float64) (*Field, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyField
	}
	f := NewField(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != f.Cols {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", r, len(row), f.Cols, ErrRagged)
		}
		copy(f.Row(r), row)
	}
	return f, nil
}

func (f *Field) Shape() (int, int) {
	return f.Rows, f.Cols
}

func (f *Field) At(r, c int) float64 {
	return f.Data[r*f.Cols+c]
}

func (f *Field) Set(r, c int, v float64) {
	f.Data[r*f.Cols+c] = v
}

// Row 返回第 r 行，与 Data 共享内存
func (f *Field) Row(r int) []float64 {
	return f.Data[r*f.Cols : (r+1)*f.Cols]
}

func (f *Field) Clone() *Field {
	data := make([]float64, len(f.Data))
	copy(data, f.Data)
	return &Field{Rows: f.Rows, Cols: f.Cols, Data: data}
}

// ToRows 拷贝为二维切片，用于 json 推送
func (f *Field) ToRows() [][]float64 {
	rows := make([][]float64, f.Rows)
	for r := range rows {
		rows[r] = make([]float64, f.Cols)
		copy(rows[r], f.Row(r))
	}
	return rows
}

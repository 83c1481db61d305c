package calculator

import "errors"

var (
	// ErrInvalidScale factor 小于 1
	ErrInvalidScale = errors.New("calculator: scale factor must be at least 1")
	// ErrInvalidTolerance 容差必须为正数
	ErrInvalidTolerance = errors.New("calculator: tolerance must be positive")
	// ErrShapeMismatch 电势场尺寸与 factor 不一致
	ErrShapeMismatch = errors.New("calculator: field shape does not match scale factor")
	// ErrDidNotConverge 达到迭代上限，或迭代发散（出现 NaN/Inf）
	ErrDidNotConverge = errors.New("calculator: relaxation did not converge")
	// ErrUnknownMethod 无法识别的迭代方法
	ErrUnknownMethod = errors.New("calculator: unknown relaxation method")
)

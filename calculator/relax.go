package calculator

import (
	"fmt"
	"math"

	"capacitor/model"
)

type Option func(*options)

type options struct {
	maxSweeps int                            // 0 表示不限制
	observer  func(sweep int, delta float64) // 每轮迭代结束后回调
}

// WithMaxSweeps 设置迭代上限，达到上限仍未收敛时返回 ErrDidNotConverge
func WithMaxSweeps(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxSweeps = n
	}
}

func WithObserver(f func(sweep int, delta float64)) Option {
	return func(o *options) { o.observer = f }
}

// state 迭代状态，仅在一次 Relax 调用内有效
type state struct {
	cur    []float64 // 当前迭代值
	next   []float64 // 双缓冲时写入的数组，单缓冲时为 nil
	sweeps int
	delta  float64
}

// swap 交换两个缓冲区，只能在一轮迭代的所有点计算完成后调用
func (s *state) swap() {
	s.cur, s.next = s.next, s.cur
}

// Relax 按给定的方法迭代直到相邻两轮的最大变化量不超过 tolerance
// 返回收敛后的电势场和迭代次数，输入的 field 不会被修改
func Relax(field *model.Field, factor int, tolerance float64, policy Policy, opts ...Option) (*model.Field, int, error) {
	if err := checkScale(factor); err != nil {
		return nil, 0, fmt.Errorf("relax: %w", err)
	}
	if !(tolerance > 0) {
		return nil, 0, fmt.Errorf("relax with tolerance %g: %w", tolerance, ErrInvalidTolerance)
	}
	rows, cols := Dims(factor)
	if field == nil || field.Rows != rows || field.Cols != cols || len(field.Data) != rows*cols {
		return nil, 0, fmt.Errorf("relax with factor %d, want %dx%d: %w", factor, rows, cols, ErrShapeMismatch)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mask := NewMask(factor)
	out := field.Clone()
	s := &state{cur: out.Data, delta: math.Inf(1)}
	if policy.doubleBuffered() {
		s.next = make([]float64, len(out.Data))
		copy(s.next, out.Data)
	}

	sweep := sweepFunc(policy, mask, s)
	for s.delta > tolerance {
		s.delta = sweep()
		if s.next != nil {
			s.swap()
		}
		s.sweeps++

		if o.observer != nil {
			o.observer(s.sweeps, s.delta)
		}
		if isNonFinite(s.delta) {
			out.Data = s.cur
			return out, s.sweeps, fmt.Errorf("%s diverged after %d sweeps (delta %g): %w", policy, s.sweeps, s.delta, ErrDidNotConverge)
		}
		if o.maxSweeps > 0 && s.sweeps >= o.maxSweeps && s.delta > tolerance {
			out.Data = s.cur
			return out, s.sweeps, fmt.Errorf("%s reached %d sweeps (delta %g): %w", policy, s.sweeps, s.delta, ErrDidNotConverge)
		}
	}

	out.Data = s.cur
	return out, s.sweeps, nil
}

// sweepFunc 返回对所有内部点做一轮更新的函数，返回值为本轮的最大变化量
// 双缓冲的方法每次调用时读取 s.cur、写入 s.next，因此交换缓冲区后仍然有效
func sweepFunc(p Policy, m *Mask, s *state) func() float64 {
	switch p.Method {
	case GaussSeidel:
		return func() float64 { return sweepGaussSeidel(s.cur, m, p.Omega) }
	case SOR:
		return func() float64 { return sweepSOR(s.cur, s.next, m, p.Omega) }
	default:
		return func() float64 { return sweepJacobi(s.cur, s.next, m) }
	}
}

func sweepJacobi(cur, next []float64, m *Mask) float64 {
	cols := m.cols
	delta := 0.0
	for r := 1; r < m.rows-1; r++ {
		base := r * cols
		for _, sp := range m.Spans(r) {
			for i := base + sp.From; i < base+sp.To; i++ {
				v := 0.25 * (cur[i+cols] + cur[i-cols] + cur[i+1] + cur[i-1])
				next[i] = v
				delta = trackDelta(delta, v, cur[i])
			}
		}
	}
	return delta
}

// 原地更新，按行从上到下、每行从左到右，已更新的邻点参与本轮计算
func sweepGaussSeidel(f []float64, m *Mask, omega float64) float64 {
	cols := m.cols
	coef := (1.0 + omega) * 0.25
	delta := 0.0
	for r := 1; r < m.rows-1; r++ {
		base := r * cols
		for _, sp := range m.Spans(r) {
			for i := base + sp.From; i < base+sp.To; i++ {
				old := f[i]
				v := coef*(f[i+cols]+f[i-cols]+f[i+1]+f[i-1]) - omega*old
				f[i] = v
				delta = trackDelta(delta, v, old)
			}
		}
	}
	return delta
}

func sweepSOR(cur, next []float64, m *Mask, omega float64) float64 {
	cols := m.cols
	delta := 0.0
	for r := 1; r < m.rows-1; r++ {
		base := r * cols
		for _, sp := range m.Spans(r) {
			for i := base + sp.From; i < base+sp.To; i++ {
				v := (1.0+omega)*(cur[i+cols]+cur[i-cols]+cur[i+1]+cur[i-1])*0.25 - omega*cur[i]
				next[i] = v
				delta = trackDelta(delta, v, cur[i])
			}
		}
	}
	return delta
}

// trackDelta 更新最大变化量，NaN 一旦出现就保留下来
func trackDelta(delta, a, b float64) float64 {
	d := math.Abs(a - b)
	if d > delta || d != d {
		return d
	}
	return delta
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

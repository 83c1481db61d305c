package render

import (
	"bufio"
	"errors"
	"io"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	HistoryWidth  = 800
	HistoryHeight = 400
)

// ErrNoHistory 可画的点少于两个
var ErrNoHistory = errors.New("render: not enough finite deltas to plot")

// historySeries 横轴为迭代轮次，纵轴为 log10(delta)
// 非有限值和 0 无法取对数，直接跳过
func historySeries(firstSweep int, deltas []float64) (xs, ys []float64) {
	for i, d := range deltas {
		if !(d > 0) || math.IsInf(d, 1) {
			continue
		}
		xs = append(xs, float64(firstSweep+i))
		ys = append(ys, math.Log10(d))
	}
	return
}

// padded 范围为 0 时 go-chart 无法绘制
func padded(vs []float64) *chart.ContinuousRange {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-0.5, hi+0.5
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// History 画出收敛曲线，deltas[i] 对应第 firstSweep+i 轮
func History(w io.Writer, firstSweep int, deltas []float64) error {
	xs, ys := historySeries(firstSweep, deltas)
	if len(xs) < 2 {
		return ErrNoHistory
	}
	graph := chart.Chart{
		Width:  HistoryWidth,
		Height: HistoryHeight,
		XAxis: chart.XAxis{
			Name:  "sweep",
			Style: chart.Style{FontSize: 10.0},
			Range: padded(xs),
		},
		YAxis: chart.YAxis{
			Name:  "log10(delta)",
			Style: chart.Style{FontSize: 10.0},
			Range: padded(ys),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "delta",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
		},
	}
	bw := bufio.NewWriter(w)
	if err := graph.Render(chart.PNG, bw); err != nil {
		return err
	}
	return bw.Flush()
}

func SaveHistory(path string, firstSweep int, deltas []float64) (err error) {
	xs, _ := historySeries(firstSweep, deltas)
	if len(xs) < 2 {
		return ErrNoHistory
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return History(file, firstSweep, deltas)
}

// Package render 把电势场画成灰度图
// 每个格点对应 cellSize*cellSize 的方块，有限值中的最小值为黑色，最大值为白色
package render

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"capacitor/model"
)

const DefaultCellSize = 8

// 有限值的范围，没有有限值时 ok 为 false
func bounds(f *model.Field) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return
}

func shade(v, lo, hi float64) uint8 {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return 0
	case math.IsInf(v, 1):
		return 255
	case hi <= lo:
		return 0
	}
	return uint8(math.Round((v - lo) / (hi - lo) * 255))
}

// Gray 第 0 行画在图像顶部
func Gray(f *model.Field, cellSize int) *image.Gray {
	if cellSize < 1 {
		cellSize = 1
	}
	img := image.NewGray(image.Rect(0, 0, f.Cols*cellSize, f.Rows*cellSize))
	lo, hi, _ := bounds(f)
	for r := 0; r < f.Rows; r++ {
		for c, v := range f.Row(r) {
			g := color.Gray{Y: shade(v, lo, hi)}
			for y := r * cellSize; y < (r+1)*cellSize; y++ {
				for x := c * cellSize; x < (c+1)*cellSize; x++ {
					img.SetGray(x, y, g)
				}
			}
		}
	}
	return img
}

func WritePNG(w io.Writer, f *model.Field, cellSize int) error {
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, Gray(f, cellSize)); err != nil {
		return err
	}
	return bw.Flush()
}

func SavePNG(path string, f *model.Field, cellSize int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePNG(file, f, cellSize)
}

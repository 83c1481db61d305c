// Package persist 以分隔文本保存和读取电势场
// 每行对应网格的一行，数值之间用固定的分隔符分开，没有表头
package persist

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"capacitor/model"
)

// DefaultDelimiter 与原始输出格式一致
const DefaultDelimiter = ';'

var (
	ErrEmpty     = errors.New("persist: no rows in input")
	ErrRagged    = errors.New("persist: rows have different numbers of values")
	ErrDelimiter = errors.New("persist: invalid delimiter")
)

// ParseDelimiter 支持名称（semicolon、comma、tab、space、pipe）或单个字符
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "semicolon":
		return ';', nil
	case "comma":
		return ',', nil
	case "tab":
		return '\t', nil
	case "space":
		return ' ', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if validDelim(r) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrDelimiter)
}

// 不能是换行、引号、数字中可能出现的字符
func validDelim(r rune) bool {
	if r == '\r' || r == '\n' || r == '"' || r == utf8.RuneError {
		return false
	}
	return !strings.ContainsRune("0123456789.+-eEnaifNAIF", r)
}

func Write(w io.Writer, f *model.Field, delim rune) error {
	if !validDelim(delim) {
		return fmt.Errorf("%q: %w", delim, ErrDelimiter)
	}
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = delim

	record := make([]string, f.Cols)
	for r := 0; r < f.Rows; r++ {
		for c, v := range f.Row(r) {
			record[c] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func Read(r io.Reader, delim rune) (*model.Field, error) {
	if !validDelim(delim) {
		return nil, fmt.Errorf("%q: %w", delim, ErrDelimiter)
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = delim != ' ' && delim != '\t'

	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%v: %w", err, ErrRagged)
			}
			return nil, fmt.Errorf("read field: %w", err)
		}
		row := make([]float64, len(record))
		for c, s := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", len(rows)+1, c+1, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return model.FieldFromRows(rows)
}

func Save(path string, f *model.Field, delim rune) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(file, f, delim)
}

func Load(path string, delim rune) (*model.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, delim)
}

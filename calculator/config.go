package calculator

import (
	"fmt"

	"gopkg.in/ini.v1"
)

type Config struct {
	// [grid]
	Factor   int
	V1       float64
	V2       float64
	Boundary float64

	// [relax]
	Method        Method
	Omega         float64
	Tolerance     float64
	MaxSweeps     int // 0 表示不限制迭代次数
	History       int // 保存最近多少轮的最大变化量
	ProgressEvery int // 每隔多少轮推送一次进度

	Output OutputConfig
	Server ServerConfig
}

// [output]
type OutputConfig struct {
	Csv          string
	Delimiter    string
	Image        string
	CellSize     int
	HistoryImage string // 收敛曲线
}

// [server]
type ServerConfig struct {
	Addr string
}

func DefaultConfig() Config {
	return Config{
		Factor:        1,
		V1:            1.0,
		V2:            -1.0,
		Boundary:      0.0,
		Method:        Jacobi,
		Omega:         0.9,
		Tolerance:     1e-5,
		MaxSweeps:     0,
		History:       64,
		ProgressEvery: 100,
		Output: OutputConfig{
			Csv:          "capacitor.csv",
			Delimiter:    "semicolon",
			Image:        "capacitor.png",
			CellSize:     8,
			HistoryImage: "capacitor_history.png",
		},
		Server: ServerConfig{
			Addr: ":9000",
		},
	}
}

// LoadConfig 读取 ini 配置，source 可以是文件路径或 []byte
// 未给出的键使用 DefaultConfig 中的值
func LoadConfig(source interface{}) (Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (Config, error) {
	d := DefaultConfig()
	grid := file.Section("grid")
	relax := file.Section("relax")
	output := file.Section("output")
	server := file.Section("server")

	method, err := ParseMethod(relax.Key("Method").MustString(d.Method.String()))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		Factor:        grid.Key("Factor").MustInt(d.Factor),
		V1:            grid.Key("V1").MustFloat64(d.V1),
		V2:            grid.Key("V2").MustFloat64(d.V2),
		Boundary:      grid.Key("Boundary").MustFloat64(d.Boundary),
		Method:        method,
		Omega:         relax.Key("Omega").MustFloat64(d.Omega),
		Tolerance:     relax.Key("Tolerance").MustFloat64(d.Tolerance),
		MaxSweeps:     relax.Key("MaxSweeps").MustInt(d.MaxSweeps),
		History:       relax.Key("History").MustInt(d.History),
		ProgressEvery: relax.Key("ProgressEvery").MustInt(d.ProgressEvery),
		Output: OutputConfig{
			Csv:          output.Key("Csv").MustString(d.Output.Csv),
			Delimiter:    output.Key("Delimiter").MustString(d.Output.Delimiter),
			Image:        output.Key("Image").MustString(d.Output.Image),
			CellSize:     output.Key("CellSize").MustInt(d.Output.CellSize),
			HistoryImage: output.Key("HistoryImage").MustString(d.Output.HistoryImage),
		},
		Server: ServerConfig{
			Addr: server.Key("Addr").MustString(d.Server.Addr),
		},
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := checkScale(c.Factor); err != nil {
		return err
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("tolerance %g: %w", c.Tolerance, ErrInvalidTolerance)
	}
	if c.Method < Jacobi || c.Method > SOR {
		return fmt.Errorf("%s: %w", c.Method, ErrUnknownMethod)
	}
	return nil
}

// Policy Jacobi 不使用 Omega
func (c Config) Policy() Policy {
	switch c.Method {
	case GaussSeidel:
		return GaussSeidelPolicy(c.Omega)
	case SOR:
		return SORPolicy(c.Omega)
	default:
		return JacobiPolicy()
	}
}

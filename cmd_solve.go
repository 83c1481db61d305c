package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"capacitor/calculator"
	"capacitor/persist"
	"capacitor/render"
)

type solveFlags struct {
	factor    int
	v1, v2    float64
	boundary  float64
	method    string
	omega     float64
	tolerance float64
	maxSweeps int
	csv       string
	delimiter string
	image     string
	cellSize  int
	history   string
}

func newSolveCmd(a *app) *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the potential field and write it as delimited text and PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, &a.cfg); err != nil {
				return err
			}
			return runSolve(a.cfg)
		},
	}
	d := calculator.DefaultConfig()
	fl := cmd.Flags()
	fl.IntVar(&f.factor, "factor", d.Factor, "grid scale factor")
	fl.Float64Var(&f.v1, "v1", d.V1, "left plate potential")
	fl.Float64Var(&f.v2, "v2", d.V2, "right plate potential")
	fl.Float64Var(&f.boundary, "boundary", d.Boundary, "outer boundary potential")
	fl.StringVarP(&f.method, "method", "m", d.Method.String(), "jacobi, gauss-seidel or sor")
	fl.Float64Var(&f.omega, "omega", d.Omega, "relaxation parameter for gauss-seidel and sor")
	fl.Float64VarP(&f.tolerance, "tolerance", "t", d.Tolerance, "stop when the largest change of a sweep is at most this")
	fl.IntVar(&f.maxSweeps, "max-sweeps", d.MaxSweeps, "give up after this many sweeps, 0 for no limit")
	fl.StringVar(&f.csv, "csv", d.Output.Csv, "delimited text output, empty to skip")
	fl.StringVar(&f.delimiter, "delimiter", d.Output.Delimiter, "value delimiter: semicolon, comma, tab, space or a single character")
	fl.StringVar(&f.image, "image", d.Output.Image, "PNG output, empty to skip")
	fl.IntVar(&f.cellSize, "cell-size", d.Output.CellSize, "pixels per grid cell")
	fl.StringVar(&f.history, "history-image", d.Output.HistoryImage, "convergence chart output, empty to skip")
	return cmd
}

// apply 只覆盖命令行中显式给出的参数
func (f *solveFlags) apply(cmd *cobra.Command, cfg *calculator.Config) error {
	fl := cmd.Flags()
	if fl.Changed("method") {
		m, err := calculator.ParseMethod(f.method)
		if err != nil {
			return err
		}
		cfg.Method = m
	}
	if fl.Changed("factor") {
		cfg.Factor = f.factor
	}
	if fl.Changed("v1") {
		cfg.V1 = f.v1
	}
	if fl.Changed("v2") {
		cfg.V2 = f.v2
	}
	if fl.Changed("boundary") {
		cfg.Boundary = f.boundary
	}
	if fl.Changed("omega") {
		cfg.Omega = f.omega
	}
	if fl.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if fl.Changed("max-sweeps") {
		cfg.MaxSweeps = f.maxSweeps
	}
	if fl.Changed("csv") {
		cfg.Output.Csv = f.csv
	}
	if fl.Changed("delimiter") {
		cfg.Output.Delimiter = f.delimiter
	}
	if fl.Changed("image") {
		cfg.Output.Image = f.image
	}
	if fl.Changed("cell-size") {
		cfg.Output.CellSize = f.cellSize
	}
	if fl.Changed("history-image") {
		cfg.Output.HistoryImage = f.history
	}
	return nil
}

// runSolve 未收敛时仍然写出结果，并返回 ErrDidNotConverge
func runSolve(cfg calculator.Config) error {
	delim, err := persist.ParseDelimiter(cfg.Output.Delimiter)
	if err != nil {
		return err
	}
	solver, err := calculator.NewSolver(cfg)
	if err != nil {
		return err
	}
	res, runErr := solver.Run()
	if runErr != nil && !errors.Is(runErr, calculator.ErrDidNotConverge) {
		return runErr
	}

	// 各输出文件互不依赖，并行写出
	var eg errgroup.Group
	if cfg.Output.Csv != "" {
		eg.Go(func() error {
			if err := persist.Save(cfg.Output.Csv, res.Field, delim); err != nil {
				return err
			}
			log.WithField("path", cfg.Output.Csv).Info("写入电势场")
			return nil
		})
	}
	if cfg.Output.Image != "" {
		eg.Go(func() error {
			if err := render.SavePNG(cfg.Output.Image, res.Field, cfg.Output.CellSize); err != nil {
				return err
			}
			log.WithField("path", cfg.Output.Image).Info("写入图像")
			return nil
		})
	}
	if cfg.Output.HistoryImage != "" {
		eg.Go(func() error {
			first := res.Sweeps - len(res.History) + 1
			err := render.SaveHistory(cfg.Output.HistoryImage, first, res.History)
			if errors.Is(err, render.ErrNoHistory) {
				log.WithField("sweeps", res.Sweeps).Warn("迭代次数太少，不画收敛曲线")
				return nil
			}
			if err != nil {
				return err
			}
			log.WithField("path", cfg.Output.HistoryImage).Info("写入收敛曲线")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return runErr
}

package calculator

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"capacitor/deque"
	"capacitor/model"
)

// Result 一次求解的结果
type Result struct {
	Field     *model.Field
	Policy    Policy
	Sweeps    int
	Delta     float64 // 最后一轮的最大变化量
	Converged bool
	History   []float64 // 最近若干轮的最大变化量，按时间顺序
	Elapsed   time.Duration
}

// Solver 根据配置生成网格并迭代求解
type Solver struct {
	cfg     Config
	calcHub *CalcHub
	history *deque.ArrDeque
}

func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.History < 1 {
		cfg.History = 1
	}
	if cfg.ProgressEvery < 1 {
		cfg.ProgressEvery = 1
	}
	return &Solver{
		cfg:     cfg,
		history: deque.NewArrDeque(cfg.History),
	}, nil
}

// SetCalcHub 设置进度推送通道，为 nil 时不推送
func (s *Solver) SetCalcHub(ch *CalcHub) {
	s.calcHub = ch
}

func (s *Solver) Config() Config {
	return s.cfg
}

// Run 执行一次完整的求解
// 发散或达到迭代上限时返回 ErrDidNotConverge，同时返回此时的 Result
func (s *Solver) Run() (*Result, error) {
	cfg := s.cfg
	policy := cfg.Policy()
	log.WithFields(log.Fields{
		"factor":     cfg.Factor,
		"V1":         cfg.V1,
		"V2":         cfg.V2,
		"boundary":   cfg.Boundary,
		"policy":     policy.String(),
		"tolerance":  cfg.Tolerance,
		"max_sweeps": cfg.MaxSweeps,
	}).Info("开始求解")

	grid, err := BuildGrid(cfg.Factor, cfg.V1, cfg.V2, cfg.Boundary)
	if err != nil {
		return nil, err
	}

	for !s.history.IsEmpty() {
		s.history.RemoveFirst()
	}
	start := time.Now()
	field, sweeps, err := Relax(grid, cfg.Factor, cfg.Tolerance, policy,
		WithMaxSweeps(cfg.MaxSweeps),
		WithObserver(s.observe),
	)
	if err != nil && !errors.Is(err, ErrDidNotConverge) {
		return nil, err
	}

	res := &Result{
		Field:     field,
		Policy:    policy,
		Sweeps:    sweeps,
		Converged: err == nil,
		History:   s.history.Values(),
		Elapsed:   time.Since(start),
	}
	if !s.history.IsEmpty() {
		res.Delta = s.history.Get(s.history.Size() - 1)
	}

	entry := log.WithFields(log.Fields{
		"policy":  policy.String(),
		"sweeps":  res.Sweeps,
		"delta":   res.Delta,
		"elapsed": res.Elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("未收敛")
		return res, err
	}
	entry.Info("求解完成")
	return res, nil
}

func (s *Solver) observe(sweep int, delta float64) {
	s.history.AddLast(delta)
	if sweep%s.cfg.ProgressEvery != 0 {
		return
	}
	log.WithFields(log.Fields{
		"sweep": sweep,
		"delta": delta,
	}).Debug("迭代进度")
	if s.calcHub != nil {
		s.calcHub.PushProgress(Progress{Sweep: sweep, Delta: delta})
	}
}

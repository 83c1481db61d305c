package main

import (
	"errors"
	"io/fs"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"capacitor/calculator"
)

const defaultConfigPath = "conf/config.ini"

// app 命令行共享的状态
type app struct {
	configPath string
	logLevel   string
	cfg        calculator.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: calculator.DefaultConfig()}
	root := &cobra.Command{
		Use:           "capacitor",
		Short:         "Relaxation solver for the potential field of a parallel-plate capacitor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "ini config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newSolveCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) setup() error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := calculator.LoadConfig(a.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		log.WithField("path", a.configPath).Warn("配置文件不存在，使用默认配置")
		cfg = calculator.DefaultConfig()
	} else {
		log.WithField("path", a.configPath).Info("读取配置文件")
	}
	a.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("运行失败")
	}
}

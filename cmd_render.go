package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"capacitor/persist"
	"capacitor/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out       string
		delimiter string
		cellSize  int
	)
	cmd := &cobra.Command{
		Use:   "render <field.csv>",
		Short: "Render a stored potential field to a grayscale PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			if !fl.Changed("out") {
				out = a.cfg.Output.Image
			}
			if !fl.Changed("delimiter") {
				delimiter = a.cfg.Output.Delimiter
			}
			if !fl.Changed("cell-size") {
				cellSize = a.cfg.Output.CellSize
			}
			delim, err := persist.ParseDelimiter(delimiter)
			if err != nil {
				return err
			}
			field, err := persist.Load(args[0], delim)
			if err != nil {
				return err
			}
			if err := render.SavePNG(out, field, cellSize); err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"from": args[0],
				"to":   out,
				"rows": field.Rows,
				"cols": field.Cols,
			}).Info("写入图像")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output (default from config)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "value delimiter (default from config)")
	cmd.Flags().IntVar(&cellSize, "cell-size", render.DefaultCellSize, "pixels per grid cell (default from config)")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"growcore/internal/core"
	"growcore/internal/guide"
	"growcore/pkg/domain"
)

func newGuideCmd(a *app) *cobra.Command {
	var (
		selectionsPath string
		format         string
		out            string
	)
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Render a grow guide from a JSON selections file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := guide.ParseFormat(format)
			if err != nil {
				return err
			}
			sel, err := readSelections(selectionsPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc := core.NewInMemoryService(core.WithLogger(a.logger.Named("service")))
			g, err := svc.Guide(cmd.Context(), sel)
			if err != nil {
				return err
			}
			if out == "" {
				out = f.FileName()
			}
			w, err := openOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := guide.Render(w, f, g); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			a.logger.Info("guide written", zap.String("path", out), zap.String("format", string(f)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&selectionsPath, "selections", "s", "-", "JSON selections file, - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, - for stdout (default the download file name)")
	return cmd
}

func readSelections(path string, stdin io.Reader) (domain.Selections, error) {
	var sel domain.Selections
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return sel, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&sel); err != nil {
		return sel, fmt.Errorf("decode selections: %w", err)
	}
	return sel, nil
}

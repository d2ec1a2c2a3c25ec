package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/goprofile/internal/profile/chart"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/export"
	"github.com/shandysiswandi/goprofile/internal/profile/loader"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
	"github.com/shandysiswandi/goprofile/internal/profile/usecase"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var errUnknownFormat = errors.New("unknown output format")

// NewProfileCmd creates the profile command.
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Profile a CSV, XLSX or XLS file",
		Long: `Profile loads a file and prints its profiling report.

Examples:
  # Print the JSON report
  goprofile profile sales.csv

  # Print a Markdown report and write every chart as PNG
  goprofile profile --format markdown --charts ./figures sales.xlsx

  # Print the summary statistics table only
  goprofile profile --describe sales.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runProfileCmd,
	}

	cmd.Flags().StringP("format", "f", formatJSON, "Output format: json or markdown")
	cmd.Flags().StringP("charts", "o", "", "Directory to write chart PNG files to")
	cmd.Flags().BoolP("describe", "d", false, "Print the summary statistics table instead of the report")
	cmd.Flags().Int("max-rows", 0, "Maximum number of data rows to load (0 = unlimited)")
	cmd.Flags().Int("workers", 4, "Number of charts rendered concurrently")

	return cmd
}

type profileOptions struct {
	format   string
	charts   string
	describe bool
	maxRows  int
	workers  int
}

func profileOptionsFrom(cmd *cobra.Command) (profileOptions, error) {
	var (
		opt profileOptions
		err error
	)
	if opt.format, err = cmd.Flags().GetString("format"); err != nil {
		return opt, err
	}
	if opt.charts, err = cmd.Flags().GetString("charts"); err != nil {
		return opt, err
	}
	if opt.describe, err = cmd.Flags().GetBool("describe"); err != nil {
		return opt, err
	}
	if opt.maxRows, err = cmd.Flags().GetInt("max-rows"); err != nil {
		return opt, err
	}
	if opt.workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return opt, err
	}

	if opt.format != formatJSON && opt.format != formatMarkdown {
		return opt, fmt.Errorf("%w: %q", errUnknownFormat, opt.format)
	}
	return opt, nil
}

func runProfileCmd(cmd *cobra.Command, args []string) error {
	opt, err := profileOptionsFrom(cmd)
	if err != nil {
		return err
	}

	res, err := analyzeFile(cmd, args[0], opt)
	if err != nil {
		return errors.New(usecase.ErrorMessage(err))
	}

	if err := writeResult(cmd.OutOrStdout(), res, opt); err != nil {
		return err
	}

	if opt.charts != "" {
		return writeCharts(opt.charts, res.Charts)
	}
	return nil
}

func analyzeFile(cmd *cobra.Command, path string, opt profileOptions) (*entity.Result, error) {
	dep := usecase.Dependency{
		Loader:   loader.New(loader.Options{MaxRows: opt.maxRows}),
		Profiler: profiler.New(),
	}
	if opt.charts != "" {
		dep.Renderer = chart.New(chart.Options{Workers: opt.workers})
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return usecase.New(dep).Analyze(cmd.Context(), filepath.Base(path), f)
}

func writeResult(w io.Writer, res *entity.Result, opt profileOptions) error {
	switch {
	case opt.describe:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Describe)
	case opt.format == formatMarkdown:
		return export.Markdown(w, res.Report, res.Describe)
	default:
		if _, err := w.Write(res.ReportJSON); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
}

func writeCharts(dir string, charts []entity.Chart) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	for _, c := range charts {
		path := filepath.Join(dir, c.Name+".png")
		if err := os.WriteFile(path, c.PNG, 0o600); err != nil {
			return fmt.Errorf("write chart %s: %w", c.Name, err)
		}
	}
	return nil
}

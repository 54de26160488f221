package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/markscan/internal/model"
	"github.com/sells-group/markscan/internal/pipeline"
	"github.com/sells-group/markscan/internal/report"
)

// errRunFailed is returned for a failed run; the runner has already
// logged the cause.
var errRunFailed = eris.New("extraction run failed")

var (
	extractEncoding string
	extractFormat   string
	extractOutput   string
	extractLimit    int
	extractPreset   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <pattern>",
	Short: "Extract marker-delimited fields from files matching a glob",
	Long: `Extract sniffs the encoding of the first matching file (unless --encoding
is given), scans every line of every matching file, and writes the
extracted records and identification codes as a report.

Patterns support ** for recursive matches, e.g. "exports/**/*.xml".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		markersCfg := cfg.Markers
		if cmd.Flags().Changed("preset") {
			markersCfg.Preset = extractPreset
		}
		markers, err := markersCfg.Resolve()
		if err != nil {
			return eris.Wrap(err, "extract: markers")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format = extractFormat
		}
		limit := cfg.Output.DisplayLimit
		if cmd.Flags().Changed("limit") {
			limit = extractLimit
		}
		writer, err := report.ForFormat(format, limit)
		if err != nil {
			return err
		}

		runner, err := pipeline.New(markers,
			pipeline.WithSniffer(cfg.Scan.Sniffer()),
			pipeline.WithLogger(zap.L()),
		)
		if err != nil {
			return err
		}

		n := &cliNotifier{log: zap.L(), status: cmd.ErrOrStderr()}
		run := runner.Run(ctx, pipeline.Request{Pattern: args[0], Encoding: extractEncoding}, n)

		if n.ready {
			doc := report.Document{
				Pattern: run.Pattern,
				Values:  n.values,
				Codes:   n.codes,
				Result:  run.Result,
			}
			if err := writeReport(writer, doc, extractOutput, cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		recordRun(ctx, run)

		if run.Failed() {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractEncoding, "encoding", "", "decode with this encoding instead of sniffing (e.g. windows-1251)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "text", "report format: text, csv, json, xlsx, markdown")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write the report to this file instead of stdout")
	extractCmd.Flags().IntVar(&extractLimit, "limit", 500, "entries shown per list in text and markdown reports (0 = all)")
	extractCmd.Flags().StringVar(&extractPreset, "preset", "generic", "marker vocabulary: generic or upd")
	rootCmd.AddCommand(extractCmd)
}

// cliNotifier logs run progress and keeps the results for the report.
type cliNotifier struct {
	log    *zap.Logger
	status io.Writer

	ready  bool
	values []string
	codes  []string
}

func (c *cliNotifier) Progress(msg string) {
	c.log.Info(msg)
}

func (c *cliNotifier) ResultsReady(values, codes []string, encoding string) {
	c.ready = true
	c.values = values
	c.codes = codes
	c.log.Debug("results ready",
		zap.Int("values", len(values)),
		zap.Int("codes", len(codes)),
		zap.String("encoding", encoding),
	)
}

func (c *cliNotifier) Completed(result model.RunResult) {
	fmt.Fprintln(c.status, report.Summary(result))
}

func (c *cliNotifier) Finished() {}

// writeReport renders doc to path, or to stdout when path is empty.
func writeReport(w report.Writer, doc report.Document, path string, stdout io.Writer) error {
	if path == "" {
		return w.Write(stdout, doc)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "extract: create output")
	}
	if err := w.Write(f, doc); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "extract: close output")
	}
	zap.L().Info("report written", zap.String("path", path), zap.String("pattern", doc.Pattern))
	return nil
}

// recordRun saves run to the history store. History is best effort: a
// failure is logged and does not change the command's result.
func recordRun(ctx context.Context, run *model.Run) {
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("history unavailable", zap.Error(err))
		return
	}
	if st == nil {
		return
	}
	defer st.Close() //nolint:errcheck

	if err := st.RecordRun(ctx, run); err != nil {
		zap.L().Warn("record run failed", zap.String("run_id", run.ID), zap.Error(err))
		return
	}
	zap.L().Debug("run recorded", zap.String("run_id", run.ID))
}

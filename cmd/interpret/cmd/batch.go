package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/config"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Interpret several models concurrently",
	Long: `Interpret several models concurrently and write one markdown report
per file into --out-dir (named after the input file, with a .md extension).
Inputs whose reports would share a name are rejected before any request.

Every file is an independent request with its own chat session. A failing
file does not stop the others; the command fails if any file failed.

Examples:
  interpret batch --kind fa --out-dir reports study1.yaml study2.yaml
  interpret batch --models --kind gm --concurrency 2 --out-dir out exports/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOutDir      string
	batchConcurrency int
	batchModels      bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "d", "", "directory for the markdown reports (required)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "maximum concurrent requests")
	batchCmd.Flags().BoolVar(&batchModels, "models", false, "treat files as fitted model exports instead of input documents")
	_ = batchCmd.MarkFlagRequired("out-dir")
	addInterpretFlags(batchCmd)
}

// batchOutcome is the result of one file.
type batchOutcome struct {
	File   string
	Output string
	Result *analysis.Interpretation
	Err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1 (got %d)", batchConcurrency)
	}
	outputs, err := reportPaths(batchOutDir, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	a, err := newApp(cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	p := newProgress(cmd.ErrOrStderr(), a.opts)
	p.Printf("interpreting %d files with %s/%s (concurrency %d)", len(args), cfg.LLM.Provider, cfg.LLM.Model, batchConcurrency)

	outcomes := make([]batchOutcome, len(args))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, file := range args {
		g.Go(func() error {
			out := interpretFile(cmd, a, file, outputs[i])
			outcomes[i] = out

			mu.Lock()
			defer mu.Unlock()
			if out.Err != nil {
				p.Printf("%s: failed: %v", file, out.Err)
			} else {
				p.Printf("%s → %s (parsed %s)", file, out.Output, out.Result.Tier())
			}
			return nil
		})
	}
	_ = g.Wait()

	snap := a.interpreter.Metrics().Snapshot()
	p.Printf("%d succeeded, %d failed, %d degraded; tokens in %d, out %d",
		snap.Totals.Succeeded, snap.Totals.Failed, snap.Totals.Degraded,
		snap.Totals.TokensIn, snap.Totals.TokensOut)

	var failed []string
	for _, out := range outcomes {
		if out.Err != nil {
			failed = append(failed, out.File)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %s", len(failed), len(args), strings.Join(failed, ", "))
	}
	return nil
}

func interpretFile(cmd *cobra.Command, a *app, file, output string) batchOutcome {
	out := batchOutcome{File: file}

	inputPath, modelPath := file, ""
	if batchModels {
		inputPath, modelPath = "", file
	}
	req, err := a.request(inputPath, modelPath)
	if err != nil {
		out.Err = err
		return out
	}

	res, err := a.interpreter.Interpret(cmd.Context(), req)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res

	md, err := a.markdown(res)
	if err != nil {
		out.Err = err
		return out
	}
	out.Output = output
	if err := config.AtomicWrite(out.Output, []byte(md)); err != nil {
		out.Err = fmt.Errorf("writing report: %w", err)
	}
	return out
}

// reportPaths maps every input to its report and fails when two inputs
// would write the same report.
func reportPaths(dir string, files []string) ([]string, error) {
	paths := make([]string, len(files))
	owner := make(map[string]string, len(files))
	for i, file := range files {
		paths[i] = reportPath(dir, file)
		if prev, ok := owner[paths[i]]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s; rename one of them or run them in separate batches", prev, file, paths[i])
		}
		owner[paths[i]] = file
	}
	return paths, nil
}

// reportPath maps an input file to <dir>/<base>.md.
func reportPath(dir, file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".md")
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/clip"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/config"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interpret one fitted model",
	Long: `Interpret one fitted model and print the report.

The model is given either as a structured input document (--input) holding
the analysis data directly, or as an export from a fitting tool
(--model-file) such as psych::fa, factor_analyzer or sklearn's
GaussianMixture. Run 'interpret kinds --classes' for the recognized exports.

Examples:
  # Factor analysis from a YAML input document
  interpret run --kind fa --input loadings.yaml

  # Gaussian mixture exported from scikit-learn, saved as markdown
  interpret run --kind gm --model-file gmm.json --output report.md

  # Use a local model and copy the report to the clipboard
  interpret run --provider ollama --model llama3.1 --input fa.yaml --copy`,
	RunE: runRun,
}

// copier abstracts the clipboard for tests.
type copier interface {
	Copy(text string) (clip.Result, error)
}

var newCopier = func() copier { return clip.NewCopier() }

var (
	runInput     string
	runModelFile string
	runOutput    string
	runCopy      bool
	runJSON      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input document (YAML or JSON)")
	runCmd.Flags().StringVarP(&runModelFile, "model-file", "m", "", "fitted model export (YAML or JSON)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "also write the markdown report to this file")
	runCmd.Flags().BoolVar(&runCopy, "copy", false, "copy the markdown report to the clipboard")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full interpretation as JSON instead of a report")
	addInterpretFlags(runCmd)
}

// addInterpretFlags registers the flags shared by run and batch. Defaults
// come from configuration; flags only apply when set.
func addInterpretFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("kind", "k", "", "analysis kind (fa, gm)")
	f.Int("word-limit", core.DefaultWordLimit, "target words per interpretation (20-500)")
	f.Float64("cutoff", core.DefaultCutoff, "loading threshold (0-1)")
	f.Int("n-emergency", core.DefaultEmergency, "top loadings used when a factor has none above the cutoff")
	f.Bool("hide-low-loadings", false, "blank loadings below the cutoff in the report's loading matrix")
	f.String("additional-info", "", "study context passed to the model")
	f.String("format", string(core.FormatCLI), "report format (cli, markdown)")
	f.Int("heading-level", 1, "markdown heading level of the report title (1-6)")
	f.String("verbosity", "0", "0 full, 1 progress only, 2 silent")
	f.String("echo", string(core.EchoNone), "echo the conversation to stderr (none, output, all)")
	f.String("provider", "", "LLM provider (anthropic, openai, openrouter, lmstudio, ollama)")
	f.String("model", "", "LLM model identifier")
	f.String("base-url", "", "provider base URL")
	f.Int("max-tokens", 0, "maximum reply tokens")
	f.Float64("temperature", 0, "sampling temperature")
	f.String("timeout", "", "per-call timeout, e.g. 90s")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	a, err := newApp(cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	req, err := a.request(runInput, runModelFile)
	if err != nil {
		return err
	}

	p := newProgress(cmd.ErrOrStderr(), a.opts)
	p.Printf("interpreting %s with %s/%s", a.opts.Kind.Label(), cfg.LLM.Provider, cfg.LLM.Model)

	res, err := a.interpreter.Interpret(cmd.Context(), req)
	if err != nil {
		return err
	}
	p.summarize(res)

	if runOutput != "" || runCopy {
		md, err := a.markdown(res)
		if err != nil {
			return err
		}
		if runOutput != "" {
			if err := config.AtomicWrite(runOutput, []byte(md)); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			p.Printf("report written to %s", runOutput)
		}
		if runCopy {
			result, err := newCopier().Copy(md)
			if err != nil {
				return err
			}
			p.Printf("%s", result.Describe())
		}
	}

	if a.opts.Verbosity != core.VerbosityFull {
		return nil
	}

	out := cmd.OutOrStdout()
	if runJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	text, err := a.formatter.Format(res, report.OptionsFor(a.opts, colorEnabled(out)))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"logtriage/internal/aiclassify"
	"logtriage/internal/cache"
	"logtriage/internal/config"
	"logtriage/internal/llm"
	"logtriage/internal/output"
	"logtriage/internal/pipeline"
	"logtriage/internal/redact"
	"logtriage/internal/rules"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a log excerpt and produce an incident summary",
	Long: `Run the full analysis pipeline over a log file or stdin.

The excerpt is redacted, fingerprinted, and looked up in the result
cache; on a miss it is classified by the configured AI provider with the
deterministic rule engine as fallback.

Examples:
  logtriage analyze /var/log/app.log
  cat excerpt.log | logtriage analyze -
  logtriage analyze --force app.log       # bypass the cache lookup
  logtriage analyze --no-ai app.log       # rule classifier only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("force", false, "bypass the cache lookup (results are still stored)")
	analyzeCmd.Flags().Bool("no-ai", false, "skip the AI classifier and use rules only")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	format := output.ParseFormat(viper.GetString("format"))

	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logger := newLogger(cfg.Verbose)

	text, err := readInput(cmd, args, cfg.MaxLogBytes)
	if err != nil {
		return err
	}

	orch, err := buildPipeline(cfg, logger, noAI)
	if err != nil {
		return err
	}

	resp := orch.Analyze(cmd.Context(), pipeline.Request{Text: text, Force: force})

	writer := output.New(cmd.OutOrStdout(), format)
	if err := writer.WriteResponse(resp); err != nil {
		return err
	}

	if resp.Error != nil {
		return fmt.Errorf("analysis rejected: %s", resp.Error.Message)
	}
	return nil
}

// readInput loads the excerpt from a file argument or stdin. Reading is
// capped at one byte past the configured maximum so an oversized input
// is still detected without buffering arbitrary amounts.
func readInput(cmd *cobra.Command, args []string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxLogBytes
	}

	var r io.Reader
	if len(args) == 0 || args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// buildPipeline wires the orchestrator from configuration. An
// unreachable or misconfigured AI provider degrades to rules-only
// operation instead of failing the command.
func buildPipeline(cfg *config.Config, logger *slog.Logger, noAI bool) (*pipeline.Orchestrator, error) {
	redactor := redact.New(cfg.Redaction.Enabled, cfg.Redaction.Patterns)
	ruleClassifier := rules.New()

	var store cache.Store
	fileStore, err := cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.TTL, logger)
	if err != nil {
		logger.Warn("result cache disabled", "error", err)
	} else {
		store = fileStore
	}

	var ai *aiclassify.Classifier
	if !noAI {
		provider, err := llm.NewProvider(cfg, logger)
		if err != nil {
			logger.Warn("ai classifier unavailable, using rules only", "error", err)
		} else {
			ai, err = aiclassify.New(provider, cfg, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to build ai classifier: %w", err)
			}
		}
	}

	return pipeline.New(cfg, redactor, store, ruleClassifier, ai, logger), nil
}

// newLogger builds the CLI logger; verbose raises the level from error
// to info.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

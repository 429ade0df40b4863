package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logtriage",
	Short: "Turn raw log excerpts into structured incident summaries",
	Long: `Logtriage ingests a raw log excerpt and produces a structured incident
summary: issue type, root cause, remediation steps, severity, category,
and confidence.

Sensitive values are redacted before anything is hashed, cached, or sent
to an AI classifier, and a deterministic rule engine guarantees a usable
answer even when no AI backend is reachable.

Examples:
  logtriage analyze /var/log/app.log
  cat excerpt.log | logtriage analyze -
  logtriage analyze --force --no-ai crash.log
  logtriage watch --min-severity high /var/log/app.log
  logtriage rules`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logtriage.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
		os.Exit(1)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logtriage")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGTRIAGE")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("max_log_bytes", 5*1024*1024)
	viper.SetDefault("cache.dir", filepath.Join(home, ".logtriage", "cache"))
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.temperature", 0)
	viper.SetDefault("llm.timeout", "30s")
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")
	viper.SetDefault("llm.openai.model", "gpt-4o")
	viper.SetDefault("llm.anthropic.model", "claude-3-7-sonnet-20250219")
	viper.SetDefault("redaction.enabled", true)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"logtriage/internal/output"
	"logtriage/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in signature rules in priority order",
	Long: `List the deterministic classification rules. Rules are evaluated top to
bottom and the first match wins, so the listed order is the priority
order.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	format := output.ParseFormat(viper.GetString("format"))
	writer := output.New(cmd.OutOrStdout(), format)
	return writer.WriteRules(rules.New().Rules())
}

package main

import (
	"fmt"
	"strings"

	"github.com/pravobot/pravobot/internal/scenario"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <text>...",
	Short: "Classify a request into an assistant scenario.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoute(cmd, strings.Join(args, " "))
	},
}

func runRoute(cmd *cobra.Command, text string) error {
	cls := scenario.Route(text, scenario.Context{})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario:   %s\n", cls.Scenario)
	fmt.Fprintf(out, "confidence: %.2f\n", cls.Confidence)
	if cls.MatchedRule != "" {
		fmt.Fprintf(out, "rule:       %s\n", cls.MatchedRule)
	}

	if !scenario.IsConfident(cls.Confidence) {
		fmt.Fprintln(out, "\nclarifying questions:")
		for _, q := range scenario.ClarifyingQuestions(cls.Scenario) {
			fmt.Fprintf(out, "  - %s\n", q)
		}
	}
	return nil
}

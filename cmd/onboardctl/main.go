// Command onboardctl is the operator CLI: it previews daily cards, card explanations, a team's
// action queue and a preboarding readiness score from local catalog, roster and checklist files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	engagementv1 "onboardflow/api/engagement/v1"
	"onboardflow/internal/content/catalog"
	"onboardflow/internal/content/domain"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	catalogPath string
	jsonOutput  bool
}

func (o *options) catalog() (*domain.Catalog, error) {
	return catalog.Load(o.catalogPath)
}

// print writes v as indented JSON when --json is set, otherwise calls text.
func (o *options) print(w io.Writer, v any, text func(io.Writer) error) error {
	if !o.jsonOutput {
		return text(w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.Parse(engagementv1.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be %s: %w", engagementv1.DateLayout, err)
	}
	return d, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "onboardctl",
		Short:         "Preview onboarding content, action queues and readiness offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "Content catalog YAML (default: embedded catalog)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of text")

	root.AddCommand(newCardsCmd(opts))
	root.AddCommand(newExplainCmd(opts))
	root.AddCommand(newQueueCmd(opts))
	root.AddCommand(newReadinessCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "onboardctl:", err)
		os.Exit(1)
	}
}

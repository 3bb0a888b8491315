package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"onboardflow/internal/content/domain"
	"onboardflow/internal/content/explainer"
	"onboardflow/internal/content/selection"
	"onboardflow/internal/policy/engine"
	preboarding "onboardflow/internal/preboarding/domain"
	profile "onboardflow/internal/profile/domain"
	"onboardflow/internal/team/actionqueue"
	"onboardflow/internal/team/roster"
)

// userFlags describe the user a card preview is for.
type userFlags struct {
	role         string
	roleCategory string
	jobTitle     string
	date         string
}

func (u *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&u.role, "role", string(profile.RoleEmployee), "EMPLOYEE or MANAGER")
	cmd.Flags().StringVar(&u.roleCategory, "role-category", "", "Role category used for targeting (e.g. DESK, FIELD)")
	cmd.Flags().StringVar(&u.jobTitle, "job-title", "", "Job title used for targeting")
	cmd.Flags().StringVar(&u.date, "date", "", "Day to preview, YYYY-MM-DD (default: today)")
}

func (u *userFlags) profile() profile.UserProfile {
	return profile.UserProfile{ID: "preview", Role: profile.Role(strings.ToUpper(u.role)), RoleCategory: u.roleCategory, JobTitle: u.jobTitle}
}

func newCardsCmd(opts *options) *cobra.Command {
	var user userFlags
	var exclude []string
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Show the daily cards a user would get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			date, err := parseDate(user.date)
			if err != nil {
				return err
			}
			excluded := make(map[string]bool, len(exclude))
			for _, id := range exclude {
				excluded[id] = true
			}
			cards := selection.SelectExcluding(user.profile(), date, cat, excluded)
			return opts.print(cmd.OutOrStdout(), cards, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n", date.Format("Monday 2006-01-02"), domain.BucketFor(date))
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for i, c := range cards {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, c.Slot, c.ID, c.Title)
				}
				return tw.Flush()
			})
		},
	}
	user.register(cmd)
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Card ids to treat as quarantined")
	return cmd
}

func newExplainCmd(opts *options) *cobra.Command {
	var user userFlags
	var req explainer.Context
	cmd := &cobra.Command{
		Use:   "explain CARD_ID",
		Short: "Explain why a card was picked for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}
			card, ok := selection.Lookup(cat, args[0])
			if !ok {
				return fmt.Errorf("card %q not found", args[0])
			}
			date, err := parseDate(user.date)
			if err != nil {
				return err
			}
			req.Role = string(user.profile().Role)
			req.JobTitle = user.jobTitle
			req.Bucket = domain.BucketFor(date)
			text := explainer.Explain(card, req)
			out := struct {
				CardID      string `json:"card_id"`
				Explanation string `json:"explanation"`
			}{card.ID, text}
			return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, text)
				return err
			})
		},
	}
	user.register(cmd)
	cmd.Flags().Float64Var(&req.CurrentWorkload, "workload", 0, "Current workload percentage")
	cmd.Flags().StringSliceVar(&req.RecentlySeenCardIDs, "seen", nil, "Recently seen card ids")
	cmd.Flags().StringSliceVar(&req.RecentKPIAlerts, "kpi-alert", nil, "Recent KPI alerts")
	cmd.Flags().StringSliceVar(&req.PendingDeadlines, "deadline", nil, "Pending deadlines")
	return cmd
}

func newQueueCmd(opts *options) *cobra.Command {
	var rosterPath, policyPath string
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Generate a manager's action queue from a team roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			team, err := roster.Load(rosterPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var classifier actionqueue.Classifier = actionqueue.Thresholds{}
			if policyPath != "" {
				module, err := engine.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
				ev, err := engine.NewOPAEvaluator(ctx, module, nil)
				if err != nil {
					return err
				}
				classifier = ev
			}
			items, err := actionqueue.GenerateWith(ctx, team.Members, classifier)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), items, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Priority, it.Type, it.Title, it.Context)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "", "Team roster YAML (default: embedded demo roster)")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Rego burnout policy (default: built-in thresholds)")
	return cmd
}

// loadItems reads a YAML list of preboarding items.
func loadItems(path string) ([]preboarding.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []preboarding.Item
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var errs []error
	for i, it := range items {
		if !it.Category.Valid() {
			errs = append(errs, fmt.Errorf("items[%d]: unknown category %q", i, it.Category))
		}
		if it.Status == "" {
			items[i].Status = preboarding.StatusPending
		} else if !it.Status.Valid() {
			errs = append(errs, fmt.Errorf("items[%d]: unknown status %q", i, it.Status))
		}
	}
	return items, errors.Join(errs...)
}

func newReadinessCmd(opts *options) *cobra.Command {
	var itemsPath string
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Score a preboarding checklist",
		Long:  "Scores the checklist in --items, or the catalog's preboarding templates when no file is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []preboarding.Item
			if itemsPath != "" {
				var err error
				if items, err = loadItems(itemsPath); err != nil {
					return err
				}
			} else {
				cat, err := opts.catalog()
				if err != nil {
					return err
				}
				for _, tpl := range cat.PreboardingTemplates {
					if tpl.Status == "" {
						tpl.Status = preboarding.StatusPending
					}
					items = append(items, tpl)
				}
			}
			score := preboarding.Score(items)
			return opts.print(cmd.OutOrStdout(), score, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "overall %d%%, critical %d/%d ready, %d blocked\n",
					score.OverallScore, score.CriticalItemsReady, score.CriticalItemsTotal, score.BlockedItems)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "Preboarding checklist YAML (list of items)")
	return cmd
}

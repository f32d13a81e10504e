package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"srs/internal/bootstrap"
	schedulingdto "srs/internal/modules/scheduling/dto"
	settingsusecase "srs/internal/modules/settings/usecase"
	"srs/internal/platform/clock"
	"srs/internal/platform/config"
	"srs/internal/platform/logging"
	"srs/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	vault    string
	config   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "srs",
		Short:         "Spaced repetition scheduler for a markdown vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.vault, "vault", "", "vault path (default \".\")")
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default <vault>/srs.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newReviewCmd(flags))
	root.AddCommand(newPreviewCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newRemoveCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newDueCmd(flags))
	root.AddCommand(newLinkCmd(flags))
	root.AddCommand(newSettingsCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *rootFlags, initialize bool) (*bootstrap.App, error) {
	cfg, err := config.Load(config.Options{VaultPath: flags.vault, ConfigFile: flags.config, LogLevel: flags.logLevel})
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, os.Stderr)
	if !initialize {
		return bootstrap.NewUninitialized(ctx, cfg, registry.Default(), clock.SystemClock{})
	}
	return bootstrap.New(ctx, cfg)
}

// withApp runs fn against a fresh app and always closes it, so pending
// settings edits reach disk before the process exits.
func withApp(flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	return run(flags, true, fn)
}

// withSettings is withApp without selecting the algorithm and store, so a
// bad selection in the data file can be repaired.
func withSettings(flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	return run(flags, false, fn)
}

func run(flags *rootFlags, initialize bool, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := loadApp(ctx, flags, initialize)
	if err != nil {
		return err
	}
	return errors.Join(fn(ctx, app), app.Close(ctx))
}

func newReviewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "review <item> <response>",
		Short: "Record a response: blackout|incorrect|incorrect-easy|again|hard|good|easy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SchedulingCLI.Review(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				status := "reviewed"
				if out.New {
					status = "scheduled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s): due=%s interval=%d ease=%d reps=%d lapses=%d\n",
					status, out.ItemID, out.Response, out.Due.Format("2006-01-02"), out.Interval, out.Ease, out.Repetitions, out.Lapses)
				return nil
			})
		},
	}
}

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <item>",
		Short: "Show the next interval for every response without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SchedulingCLI.Preview(ctx, args[0])
				if err != nil {
					return err
				}
				for _, opt := range out.Options {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dd\tdue=%s\tease=%d\n", opt.Response, opt.Interval, opt.Due.Format("2006-01-02"), opt.Ease)
				}
				return nil
			})
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item>",
		Short: "Show the stored review state of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.SchedulingCLI.Show(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "item: %s\ndue: %s\ninterval: %d\nease: %d\nreps: %d\nlapses: %d\nlast review: %s\n",
					s.ItemID, s.Due.Format("2006-01-02"), s.Interval, s.Ease, s.Repetitions, s.Lapses, formatDay(s.LastReviewed.IsZero(), s.LastReviewed.Format("2006-01-02")))
				return nil
			})
		},
	}
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item>",
		Short: "Stop tracking an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SchedulingCLI.Remove(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked items by due date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.SchedulingCLI.List(ctx)
				if err != nil {
					return err
				}
				printStates(cmd.OutOrStdout(), items, "no tracked items")
				return nil
			})
		},
	}
}

func newDueCmd(flags *rootFlags) *cobra.Command {
	var days, limit int
	due := &cobra.Command{
		Use:   "due",
		Short: "List items due within the review window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				window, err := reviewWindow(ctx, app, days)
				if err != nil {
					return err
				}
				items, err := app.SchedulingCLI.Due(ctx, window, limit)
				if err != nil {
					return err
				}
				printStates(cmd.OutOrStdout(), items, "nothing due")
				return nil
			})
		},
	}
	due.Flags().IntVar(&days, "days", 0, "days ahead of today to include, 0 means due today")
	due.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 means all)")
	return due
}

func newLinkCmd(flags *rootFlags) *cobra.Command {
	link := &cobra.Command{Use: "link", Short: "Links between items, used to seed new items"}

	var weight float64
	add := &cobra.Command{
		Use:   "add <from> <to>",
		Short: "Record that <from> links to <to>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LinksCLI.Add(ctx, args[0], args[1], weight)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "linked %s -> %s weight=%g\n", out.FromID, out.ToID, out.Weight)
				return nil
			})
		},
	}
	add.Flags().Float64Var(&weight, "weight", 1, "link weight")

	incoming := &cobra.Command{
		Use:   "incoming <item>",
		Short: "List items linking to <item>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				links, err := app.LinksCLI.Incoming(ctx, args[0])
				if err != nil {
					return err
				}
				if len(links) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no incoming links")
					return nil
				}
				for _, l := range links {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", l.FromID, l.Weight)
				}
				return nil
			})
		},
	}

	forget := &cobra.Command{
		Use:   "forget <item>",
		Short: "Drop every link to or from <item>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.LinksCLI.Forget(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "forgot links of %s\n", args[0])
				return nil
			})
		},
	}

	link.AddCommand(add, incoming, forget)
	return link
}

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Read and edit scheduler settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SettingsCLI.Show(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting. Keys: " + strings.Join(settingsusecase.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(flags, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.SettingsCLI.Set(ctx, args[0], args[1]); err != nil {
					return err
				}
				if err := app.SettingsCLI.Flush(ctx); err != nil {
					return err
				}
				if args[0] == "algorithm" || args[0] == "dataStore" {
					if err := app.Reload(ctx); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the settings file to the current layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SettingsCLI.Migrate(ctx)
				if err != nil {
					return err
				}
				if out.Migrated {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", out.Path)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", out.Path)
				}
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report values outside their allowed ranges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SettingsCLI.Check(ctx)
				if err != nil {
					return err
				}
				if len(out.Warnings) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "settings ok")
					return nil
				}
				for _, w := range out.Warnings {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
				}
				return nil
			})
		},
	})
	return settings
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	var days, limit int
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Review due items interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				window, err := reviewWindow(ctx, app, days)
				if err != nil {
					return err
				}
				return bootstrap.RunTUI(app, window, limit)
			})
		},
	}
	tui.Flags().IntVar(&days, "days", 0, "days ahead of today to include")
	tui.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 means all)")
	return tui
}

// reviewWindow caps --days at the maxNDaysNotesReviewQueue setting.
func reviewWindow(ctx context.Context, app *bootstrap.App, days int) (int, error) {
	current, err := app.SettingsCLI.Show(ctx)
	if err != nil {
		return 0, err
	}
	if current.MaxNDaysNotesReviewQueue > 0 && days > current.MaxNDaysNotesReviewQueue {
		return current.MaxNDaysNotesReviewQueue, nil
	}
	return days, nil
}

func printStates(w io.Writer, items []schedulingdto.StateOutput, empty string) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, empty)
		return
	}
	for _, s := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%dd\tease=%d\n", s.Due.Format("2006-01-02"), s.ItemID, s.Interval, s.Ease)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDay(zero bool, day string) string {
	if zero {
		return "never"
	}
	return day
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/calorie-tracker/internal/app"
	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
	"github.com/vladimiradmaev/calorie-tracker/internal/utils"
)

type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "nutrictl",
		Short:        "Inspect and edit the calorie tracker",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./config.yml, then environment)")

	root.AddCommand(
		newValidateConfigCmd(opts),
		newSearchCmd(opts),
		newDayCmd(opts),
		newLogCmd(opts),
		newStreakCmd(opts),
	)
	return root
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}

// withApp runs fn against a freshly opened app. Logs go to stderr at warn
// level so they do not mix with command output.
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	logOut := cfg.Logger.OutputPath
	if logOut == "" || logOut == "stdout" {
		logOut = "stderr"
	}
	if err := logger.InitWithConfig(logger.Config{Level: logger.LevelWarn, OutputPath: logOut, Format: "text"}); err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func newValidateConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Check the configuration and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("configuration is invalid:\n%w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✅ Configuration is valid")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  DB driver\t%s\n", cfg.DB.Driver)
			if cfg.DB.Driver == "sqlite" {
				fmt.Fprintf(w, "  DB path\t%s\n", cfg.DB.Path)
			} else {
				fmt.Fprintf(w, "  DB host\t%s:%s/%s\n", cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
			}
			fmt.Fprintf(w, "  Food API\t%s (%s)\n", cfg.FoodAPI.BaseURL, cfg.FoodAPI.Timeout)
			fmt.Fprintf(w, "  Settings store\t%s\n", cfg.Settings.Store)
			fmt.Fprintf(w, "  HTTP\t%v %s\n", cfg.HTTP.Enabled, cfg.HTTP.Addr)
			fmt.Fprintf(w, "  Telegram token\t%s\n", maskToken(cfg.Telegram.Token))
			fmt.Fprintf(w, "  Gemini API key\t%s\n", maskToken(cfg.Gemini.APIKey))
			fmt.Fprintf(w, "  Time zone\t%s\n", cfg.Location())
			fmt.Fprintf(w, "  Log level\t%v\n", cfg.Logger.Level)
			return w.Flush()
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search custom and remote foods",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				results, err := a.Services.Foods.Search(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printResults(cmd.OutOrStdout(), results)
			})
		},
	}
}

func printResults(out io.Writer, results []services.SearchResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tSERVING\tKCAL")
	for _, r := range results {
		amount := r.Serving.Amount * r.ServingQuantity
		kcal := "-"
		if v, ok := r.Food.Nutrients[nutrition.Energy]; ok {
			kcal = nutrition.FormatNumber(v * amount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Food.ID, r.Food.Name, r.Source,
			nutrition.FormatServing(r.Serving.Label, r.ServingQuantity, amount, r.Food.BaseUnit), kcal)
	}
	return w.Flush()
}

func newDayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the entries and totals of a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var day calendar.Day
				if len(args) == 1 {
					d, err := calendar.ParseDay(args[0])
					if err != nil {
						return err
					}
					day = d
				}
				summary, err := a.Services.Diary.Day(ctx, day)
				if err != nil {
					return err
				}
				cfg, err := a.Services.Settings.Load(ctx)
				if err != nil {
					return err
				}
				return printDay(cmd.OutOrStdout(), summary, cfg)
			})
		},
	}
}

func printDay(out io.Writer, s *services.DaySummary, cfg settings.Settings) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", s.Day)
	for _, m := range s.Meals {
		if len(m.Entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\t\t%s kcal\n", m.Meal, m.Totals.Format(nutrition.Energy))
		for _, e := range m.Entries {
			fmt.Fprintf(w, "  %s\t%s\t%s kcal\t%s\n", e.Food.Name, e.Serving, nutrition.FormatNumber(e.Energy), e.ID)
		}
	}
	fmt.Fprintln(w)
	nutrients := nutrition.Macros()
	if cfg.ShowMicronutrients {
		nutrients = append(nutrients, nutrition.InGroup(nutrition.GroupMineral)...)
		nutrients = append(nutrients, nutrition.InGroup(nutrition.GroupVitamin)...)
	}
	for _, n := range nutrients {
		info, _ := nutrition.Lookup(n)
		fmt.Fprintf(w, "%s\t%s\n", info.Label, s.Totals.FormatWithUnit(n))
	}
	for _, g := range s.Goals {
		fmt.Fprintf(w, "goal %s\t%s / %s %s\t%s%%\n", g.Label,
			nutrition.FormatNumber(g.Consumed), nutrition.FormatNumber(g.Goal), g.Unit, nutrition.FormatNumber(g.Percent))
	}
	return w.Flush()
}

func newLogCmd(opts *options) *cobra.Command {
	var meal string
	var day string
	cmd := &cobra.Command{
		Use:   "log <food-id> <amount>",
		Short: `Log a food, e.g. nutrictl log p-123 "2 slices" --meal lunch`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, label, err := utils.ParseAmount(args[1])
			if err != nil {
				return err
			}
			m, err := domain.ParseMeal(meal)
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				food, err := a.Services.Foods.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if u, err := nutrition.ParseBaseUnit(label); err == nil && u == food.BaseUnit {
					label = ""
				}
				entry, err := a.Services.Diary.Log(ctx, services.LogInput{
					FoodID:          food.ID,
					Meal:            m,
					Day:             calendar.Day(day),
					ServingLabel:    label,
					ServingQuantity: qty,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged %s to %s on %s (%s)\n", food.Name, entry.Meal, entry.Day, entry.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&meal, "meal", "m", string(domain.Snack), "breakfast, lunch, dinner or snack")
	cmd.Flags().StringVarP(&day, "day", "d", "", "day to log on (default today)")
	return cmd
}

func newStreakCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest logging streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.Services.Streaks.Summary(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current %d\nlongest %d\n", s.Current, s.Longest)
				return nil
			})
		},
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Command town declares a small town of doors, houses and their keepers,
// resolves it and reports the resulting components.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ARTM2000/grove"
	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagVerbose bool
)

// errorHandled is set when the report already describes the failure so
// main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "town",
	Short:         "Resolve a demo component graph",
	Long:          "Town declares doors, houses, a palace and their staff into a grove context and reports how the graph resolved.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text|json|yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log resolution rounds to stderr")

	rootCmd.AddCommand(resolveCmd)
}

var flagTown townOptions

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Declare the town and resolve it",
	Long:  "Declares the town in scrambled order, resolves it and prints every component key with its instance count. Exits non-zero when the graph cannot be resolved.",
	Args:  cobra.NoArgs,
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&flagTown.Houses, "houses", 2, "number of houses sharing the front door")
	resolveCmd.Flags().BoolVar(&flagTown.Golden, "golden", false, "supply a golden door")
	resolveCmd.Flags().BoolVar(&flagTown.Palace, "palace", false, "build a palace behind the golden door and hire its janitor")
}

func runResolve(cmd *cobra.Command, args []string) error {
	c, err := declareTown(flagTown, newLogger(cmd.ErrOrStderr(), flagVerbose))
	if err != nil {
		return err
	}

	resolveErr := c.Resolve()
	report := buildReport(c, resolveErr)
	if err := writeReport(cmd.OutOrStdout(), flagFormat, report); err != nil {
		return err
	}
	if resolveErr != nil {
		errorHandled = true
		return resolveErr
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildReport summarizes a resolved or failed context.
func buildReport(c *grove.Context, resolveErr error) Report {
	r := Report{Phase: c.Phase().String()}

	if resolveErr != nil {
		r.Error = resolveErr.Error()
		var uerr *grove.UnresolvedError
		if errors.As(resolveErr, &uerr) {
			for _, e := range uerr.Entries {
				row := UnresolvedRow{
					Type:        e.Key.Type.String(),
					Qualifier:   qualifierName(e.Key.Qualifier),
					Initializer: e.Initializer,
				}
				for _, p := range e.Missing {
					row.Missing = append(row.Missing, p.String())
				}
				r.Unresolved = append(r.Unresolved, row)
			}
		}
		return r
	}

	infos, err := c.Components()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	for _, info := range infos {
		r.Components = append(r.Components, ComponentRow{
			Type:      info.Key.Type.String(),
			Qualifier: qualifierName(info.Key.Qualifier),
			Count:     info.Count,
		})
	}

	if guard, err := grove.Get[*Guard](c); err == nil {
		r.Guarded = len(guard.Buildings)
	}
	if keeper, err := grove.Get[*HouseKeeper](c); err == nil {
		r.Kept = keeper.Houses.Len()
	}
	return r
}

func qualifierName(q grove.Qualifier) string {
	name, _ := q.Name()
	return name
}

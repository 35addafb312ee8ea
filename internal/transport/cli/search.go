package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalog/internal/transport/catalogapi"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

type searchOutput struct {
	Items   []catalogapi.ItemDTO `json:"items"`
	HasMore bool                 `json:"has_more"`
}

func newSearchCmd(factory Factory, env *string) *cobra.Command {
	var (
		flags  selectionFlags
		pages  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search the catalog and print the results",
		Long: `Loads up to --pages pages for the given filter and prints the matching items.
The term is matched against identifiers and titles of the loaded items.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			sel, key, err := flags.parse(term)
			if err != nil {
				return err
			}
			if pages < 1 {
				return errors.New("--pages must be at least 1")
			}

			rt, err := factory(cmd.Context(), *env, false)
			if err != nil {
				return err
			}
			defer rt.close()

			opts := append(controllerOptions(rt, sel, key),
				browse.WithNotifier(&printNotifier{w: cmd.ErrOrStderr()}))
			ctrl := browse.New(rt.Gateway, opts...)

			ctx := cmd.Context()
			if err := ctrl.Start(ctx); err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			for i := 1; i < pages && !ctrl.Flags().Exhausted; i++ {
				if err := ctrl.LoadMore(ctx); err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
			}

			v := ctrl.View()
			if asJSON {
				return outputSearchJSON(cmd.OutOrStdout(), v)
			}
			outputSearchTable(cmd.OutOrStdout(), v)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}

func outputSearchJSON(w io.Writer, v browse.View) error {
	out := searchOutput{Items: make([]catalogapi.ItemDTO, 0, len(v.Items)), HasMore: v.Status.HasMore}
	for i := range v.Items {
		out.Items = append(out.Items, catalogapi.ItemFromDomain(&v.Items[i]))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return nil
}

func outputSearchTable(w io.Writer, v browse.View) {
	if len(v.Items) == 0 {
		_, _ = fmt.Fprintln(w, browse.NoResultsMessage)
		return
	}
	for i := range v.Items {
		it := &v.Items[i]
		title := it.Title()
		if title == "" {
			title = it.ID()
		}
		_, _ = fmt.Fprintf(w, "  [%d] %s (%s)\n", i+1, title, it.ID())
		if a := it.Authors().Best(); a != "" {
			_, _ = fmt.Fprintf(w, "      %s\n", a)
		}
	}
	if v.Status.HasMore {
		_, _ = fmt.Fprintln(w, "\nMore results available, use --pages to load them.")
	}
}

// printNotifier writes notifications to stderr. Errors are skipped: the command returns them.
type printNotifier struct {
	w io.Writer
}

func (n *printNotifier) Notify(message string, level browse.Level) {
	if level == browse.LevelError {
		return
	}
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", level, message)
}

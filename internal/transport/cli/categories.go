package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalog/internal/usecase/taxonomy"
)

type categoryOutput struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
}

func newCategoriesCmd(factory Factory, env *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := factory(cmd.Context(), *env, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.Categories == nil {
				return errors.New("categories are not configured")
			}
			entries, err := taxonomy.New(rt.Categories, rt.logger()).Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing categories: %w", err)
			}

			if asJSON {
				out := make([]categoryOutput, 0, len(entries))
				for _, e := range entries {
					out = append(out, categoryOutput{ID: e.ID, Label: e.Label, Depth: e.Depth})
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal categories: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(w, "No categories.")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", e.Depth), e.Label, e.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output categories as JSON")
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// CachePurger drops cached pages.
type CachePurger interface {
	Purge(ctx context.Context) (int, error)
}

func newCacheCmd(factory Factory, env *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := factory(cmd.Context(), *env, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.Cache == nil {
				return errors.New("page cache is disabled or unreachable")
			}
			n, err := rt.Cache.Purge(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached pages.\n", n)
			return nil
		},
	})
	return cmd
}

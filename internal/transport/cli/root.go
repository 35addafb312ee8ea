// Package cli is the catalog command line.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/match"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
	"github.com/kailas-cloud/catalog/internal/usecase/health"
	"github.com/kailas-cloud/catalog/internal/usecase/taxonomy"
)

// HealthChecker reports on the catalog and its cache.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Runtime is what the commands run against, built after flags are parsed.
type Runtime struct {
	Gateway       browse.Gateway
	Categories    taxonomy.Source
	PageSize      int
	Comparator    *sortkey.Comparator
	ToastDuration time.Duration
	Logger        *zap.Logger
	Health        HealthChecker
	Cache         CachePurger // nil when the page cache is off
	Close         func()      // releases connections, may be nil
}

func (r *Runtime) close() {
	if r.Close != nil {
		r.Close()
	}
}

func (r *Runtime) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Factory builds the runtime for an environment. Interactive is true when the terminal UI
// owns the screen, so logs must not go to stderr.
type Factory func(ctx context.Context, env string, interactive bool) (*Runtime, error)

// NewRootCmd assembles the command tree.
func NewRootCmd(factory Factory, defaultEnv string) *cobra.Command {
	var env string
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Browse a remote catalog from the terminal",
		Long: `catalog browses a paginated remote collection.

Free-text search narrows the loaded results locally. A type, language or category
filter is resolved by the server and reloads the list from the first page.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&env, "env", defaultEnv, "configuration environment (config/<env>.yaml)")

	root.AddCommand(
		newBrowseCmd(factory, &env),
		newSearchCmd(factory, &env),
		newCategoriesCmd(factory, &env),
		newDoctorCmd(factory, &env),
		newCacheCmd(factory, &env),
		newVersionCmd(),
	)
	return root
}

// selectionFlags are the structured constraint flags. At most one may be set.
type selectionFlags struct {
	typ      string
	language string
	category string
	sort     string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "only items of this type or relation (version_of, commentary_of, translation_of)")
	cmd.Flags().StringVar(&f.language, "language", "", "only items in this language")
	cmd.Flags().StringVar(&f.category, "category", "", "only items in this category")
	cmd.Flags().StringVar(&f.sort, "sort", string(sortkey.Relevance), "sort order (relevance, title_asc, title_desc, id_asc, id_desc)")
}

func (f *selectionFlags) selection(term string) (filter.Selection, error) {
	sel := filter.NewSelection(term)
	if err := match.Validate(term); err != nil {
		return sel, err
	}
	var (
		dim   filter.Dimension
		value string
		set   int
	)
	for _, c := range []struct {
		dim   filter.Dimension
		value string
	}{
		{filter.DimensionType, f.typ},
		{filter.DimensionLanguage, f.language},
		{filter.DimensionCategory, f.category},
	} {
		if c.value != "" {
			dim, value = c.dim, c.value
			set++
		}
	}
	if set > 1 {
		return sel, errors.New("only one of --type, --language, --category may be set")
	}
	if set == 0 {
		return sel, nil
	}
	return sel.WithConstraint(dim, value)
}

// parse validates the flags before any connection is made.
func (f *selectionFlags) parse(term string) (filter.Selection, sortkey.Key, error) {
	sel, err := f.selection(term)
	if err != nil {
		return sel, "", err
	}
	key, err := sortkey.Parse(f.sort)
	if err != nil {
		return sel, "", err
	}
	return sel, key, nil
}

func controllerOptions(rt *Runtime, sel filter.Selection, key sortkey.Key) []browse.Option {
	return []browse.Option{
		browse.WithSelection(sel),
		browse.WithSort(key),
		browse.WithPageSize(rt.PageSize),
		browse.WithComparator(rt.Comparator),
		browse.WithLogger(rt.logger()),
	}
}

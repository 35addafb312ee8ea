package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/transport/tui"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
	"github.com/kailas-cloud/catalog/internal/usecase/taxonomy"
)

func newBrowseCmd(factory Factory, env *string) *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   "browse [term]",
		Short: "Launch the interactive browser",
		Long: `Launch the interactive terminal browser.

Controls:
  /        - Search loaded identifiers and titles
  t, l, c  - Filter by type, language, category
  s        - Cycle sort order
  x        - Clear filters
  r        - Reload
  ↑/k, ↓/j - Navigate; reaching the end loads the next page
  q        - Quit`,
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

			rt, err := factory(cmd.Context(), *env, true)
			if err != nil {
				return err
			}
			defer rt.close()

			bridge := tui.NewBridge()
			opts := append(controllerOptions(rt, sel, key),
				browse.WithRenderer(bridge),
				browse.WithNotifier(bridge),
			)
			ctrl := browse.New(rt.Gateway, opts...)
			rt.logger().Info("browse session started", zap.String("session", ctrl.Session()))

			cfg := &tui.Config{
				Browser:       ctrl,
				Logger:        rt.logger(),
				ToastDuration: rt.ToastDuration,
			}
			if rt.Categories != nil {
				cfg.Categories = taxonomy.New(rt.Categories, rt.logger())
			}
			app, err := tui.NewApp(cfg)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), app, bridge)
		},
	}
	flags.register(cmd)
	return cmd
}

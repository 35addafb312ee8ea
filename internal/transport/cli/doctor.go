package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalog/internal/usecase/health"
)

type checkOutput struct {
	OK        bool    `json:"ok"`
	Error     string  `json:"error,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

type doctorOutput struct {
	Status string                 `json:"status"`
	Checks map[string]checkOutput `json:"checks"`
}

var errUnhealthy = errors.New("catalog is unreachable")

func newDoctorCmd(factory Factory, env *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to the catalog and the page cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := factory(cmd.Context(), *env, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.Health == nil {
				return errors.New("health checks are not configured")
			}
			report := rt.Health.Check(cmd.Context())

			w := cmd.OutOrStdout()
			if asJSON {
				out := doctorOutput{Status: string(report.Status), Checks: make(map[string]checkOutput, len(report.Checks))}
				for name, c := range report.Checks {
					out.Checks[name] = checkOutput{
						OK:        c.OK,
						Error:     c.Error,
						LatencyMS: float64(c.Latency.Microseconds()) / 1000,
					}
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal report: %w", err)
				}
				_, _ = fmt.Fprintln(w, string(data))
			} else {
				names := make([]string, 0, len(report.Checks))
				for name := range report.Checks {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					c := report.Checks[name]
					if c.OK {
						_, _ = fmt.Fprintf(w, "  %-8s ok (%s)\n", name, c.Latency.Round(1e6))
						continue
					}
					_, _ = fmt.Fprintf(w, "  %-8s FAIL: %s\n", name, c.Error)
				}
				_, _ = fmt.Fprintf(w, "Status: %s\n", report.Status)
			}

			if report.Status == health.Unhealthy {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the report as JSON")
	return cmd
}

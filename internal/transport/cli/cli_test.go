package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/match"
	"github.com/kailas-cloud/catalog/internal/usecase/health"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd(newFixture(t).factory, "local")

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"browse", "search", "categories", "doctor", "cache", "version"}, names)
	flag := root.PersistentFlags().Lookup("env")
	require.NotNil(t, flag)
	assert.Equal(t, "local", flag.DefValue)
}

func TestVersionCmd(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("version")

	require.NoError(t, err)
	assert.Contains(t, out, "catalog version dev")
	assert.Zero(t, f.calls)
}

func TestSearchCmd_Help(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "matched against identifiers and titles")
	assert.NotContains(t, out, "authors")
	assert.Zero(t, f.calls)
}

func TestSearchCmd_FirstPage(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] Alpha (P1)")
	assert.Contains(t, out, "[2] Beta (P2)")
	assert.Contains(t, out, "Author P1")
	assert.Contains(t, out, "More results available")
	assert.Equal(t, "test", f.lastEnv)
}

func TestSearchCmd_LoadsPages(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search", "--pages", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "[5] Epsilon (P5)")
	assert.NotContains(t, out, "More results available")
	assert.Len(t, f.gw.exprs, 3, "stops at the last page")
}

func TestSearchCmd_TermIsLocal(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search", "alp")

	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta")
	require.Len(t, f.gw.exprs, 1)
	assert.True(t, f.gw.exprs[0].IsEmpty())
}

func TestSearchCmd_ConstraintIsRemote(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run("search", "--language", "sa")

	require.NoError(t, err)
	require.Len(t, f.gw.exprs, 1)
	c, ok := f.gw.exprs[0].Condition()
	require.True(t, ok)
	assert.Equal(t, string(filter.DimensionLanguage), c.Field())
}

func TestSearchCmd_Sort(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search", "--sort", "title-desc")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] Beta (P2)")
}

func TestSearchCmd_JSON(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("search", "--json")

	require.NoError(t, err)
	var got struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "P1", got.Items[0].ID)
	assert.True(t, got.HasMore)
}

func TestSearchCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"two constraints", []string{"search", "--type", "version_of", "--language", "en"}, "only one of"},
		{"bad sort", []string{"search", "--sort", "newest"}, "invalid sort key"},
		{"zero pages", []string{"search", "--pages", "0"}, "--pages"},
		{"too many args", []string{"search", "a", "b"}, "accepts at most 1 arg(s)"},
		{"long term", []string{"search", strings.Repeat("a", match.MaxTermLength+1)}, "search term too long"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, _, err := f.run(tc.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Zero(t, f.calls, "flags are validated before connecting")
		})
	}
}

func TestSearchCmd_TransportError(t *testing.T) {
	f := newFixture(t)
	f.gw.err = domain.NewTransportError("fetch page", 0, errDown)

	_, stderr, err := f.run("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotContains(t, stderr, "error: Could not")
}

func TestSearchCmd_MalformedWarns(t *testing.T) {
	f := newFixture(t)
	f.gw.err = domain.ErrMalformedResponse

	out, stderr, err := f.run("search")

	require.NoError(t, err)
	assert.Contains(t, out, "No results")
	assert.Contains(t, stderr, "warning: ")
}

func TestSearchCmd_FactoryError(t *testing.T) {
	f := newFixture(t)
	f.err = errDown

	_, _, err := f.run("search")

	assert.ErrorIs(t, err, errDown)
}

func TestCategoriesCmd(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("categories")

	require.NoError(t, err)
	assert.Contains(t, out, "Sutra (sutra)\n")
	assert.Contains(t, out, "  Early (sutra.early)\n")
}

func TestCategoriesCmd_JSON(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("categories", "--json")

	require.NoError(t, err)
	var got []categoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Depth)
}

func TestCategoriesCmd_Error(t *testing.T) {
	f := newFixture(t)
	f.src.err = domain.NewTransportError("fetch categories", 500, nil)

	_, _, err := f.run("categories")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing categories")
}

func TestBrowseCmd_Flags(t *testing.T) {
	root := NewRootCmd(newFixture(t).factory, "local")
	cmd, _, err := root.Find([]string{"browse"})
	require.NoError(t, err)

	for _, name := range []string{"type", "language", "category", "sort"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestBrowseCmd_RejectsTwoConstraints(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run("browse", "--language", "en", "--category", "sutra")

	require.Error(t, err)
	assert.Zero(t, f.calls)
}

func TestDoctorCmd(t *testing.T) {
	f := newFixture(t)
	f.health = &fakeHealth{report: health.Report{
		Status: health.Degraded,
		Checks: map[string]health.CheckResult{
			"catalog": {OK: true, Latency: 12 * time.Millisecond},
			"cache":   {Error: "dial tcp: connection refused"},
		},
	}}

	out, _, err := f.run("doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "catalog  ok (12ms)")
	assert.Contains(t, out, "cache    FAIL: dial tcp: connection refused")
	assert.Contains(t, out, "Status: degraded")
}

func TestDoctorCmd_UnhealthyFails(t *testing.T) {
	f := newFixture(t)
	f.health = &fakeHealth{report: health.Report{
		Status: health.Unhealthy,
		Checks: map[string]health.CheckResult{"catalog": {Error: "status 503"}},
	}}

	out, _, err := f.run("doctor", "--json")

	require.ErrorIs(t, err, errUnhealthy)
	var got doctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "error", got.Status)
	assert.False(t, got.Checks["catalog"].OK)
}

func TestDoctorCmd_NotConfigured(t *testing.T) {
	_, _, err := newFixture(t).run("doctor")

	require.Error(t, err)
}

func TestCacheClearCmd(t *testing.T) {
	f := newFixture(t)
	f.cache = &fakeCache{n: 7}

	out, _, err := f.run("cache", "clear")

	require.NoError(t, err)
	assert.Equal(t, "Removed 7 cached pages.\n", out)
}

func TestCacheClearCmd_Errors(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run("cache", "clear")
	require.ErrorContains(t, err, "disabled")

	f.cache = &fakeCache{err: errDown}
	_, _, err = f.run("cache", "clear")
	require.ErrorIs(t, err, errDown)
}

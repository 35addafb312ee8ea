package sortkey

import (
	"slices"
	"testing"

	"golang.org/x/text/language"

	"github.com/kailas-cloud/catalog/internal/domain/item"
)

func mk(t *testing.T, id string, titles ...item.Text) item.Item {
	t.Helper()
	it, err := item.New(id, item.NewLocalized(titles...), item.Localized{}, nil, item.Attributes{})
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return it
}

func en(s string) item.Text { return item.Text{Lang: "en", Value: s} }

func ids(items []item.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"", Relevance, false},
		{"relevance", Relevance, false},
		{"Title-Asc", TitleAsc, false},
		{"id_desc", IDDesc, false},
		{"newest", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Parse(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSort_RelevanceIsIdentity(t *testing.T) {
	c := NewComparator(language.English)
	items := []item.Item{mk(t, "c", en("Zeta")), mk(t, "a", en("Alpha")), mk(t, "b", en("Mu"))}
	c.Sort(items, Relevance)
	if !slices.Equal(ids(items), []string{"c", "a", "b"}) {
		t.Errorf("relevance reordered: %v", ids(items))
	}
}

func TestSort_TitleAscDescAreReversed(t *testing.T) {
	c := NewComparator(language.English)
	items := []item.Item{
		mk(t, "1", en("delta")),
		mk(t, "2", en("Alpha")),
		mk(t, "3", en("charlie")),
		mk(t, "4", en("Bravo")),
	}
	c.Sort(items, TitleAsc)
	asc := ids(items)
	if !slices.Equal(asc, []string{"2", "4", "3", "1"}) {
		t.Errorf("title asc = %v", asc)
	}

	c.Sort(items, TitleDesc)
	desc := ids(items)
	slices.Reverse(desc)
	if !slices.Equal(asc, desc) {
		t.Errorf("title desc is not the reverse of asc: %v vs %v", asc, ids(items))
	}
}

func TestSort_TitleIsLocaleAware(t *testing.T) {
	c := NewComparator(language.English)
	items := []item.Item{mk(t, "z", en("zebra")), mk(t, "e", en("Éclair")), mk(t, "a", en("apple"))}
	c.Sort(items, TitleAsc)
	if !slices.Equal(ids(items), []string{"a", "e", "z"}) {
		t.Errorf("collated order = %v", ids(items))
	}
}

func TestSort_BestTitleFallsBackToFirstEntry(t *testing.T) {
	c := NewComparator(language.English)
	items := []item.Item{
		mk(t, "x", item.Text{Lang: "fr", Value: "Zut"}, item.Text{Lang: "de", Value: "Aber"}),
		mk(t, "y", item.Text{Lang: "de", Value: "Mitte"}),
		mk(t, "none"),
	}
	c.Sort(items, TitleAsc)
	if !slices.Equal(ids(items), []string{"none", "y", "x"}) {
		t.Errorf("order = %v", ids(items))
	}
}

func TestSort_IDIsByteOrder(t *testing.T) {
	c := NewComparator(language.English)
	items := []item.Item{mk(t, "b"), mk(t, "B"), mk(t, "a"), mk(t, "A")}
	c.Sort(items, IDAsc)
	if !slices.Equal(ids(items), []string{"A", "B", "a", "b"}) {
		t.Errorf("id asc = %v", ids(items))
	}
	c.Sort(items, IDDesc)
	if !slices.Equal(ids(items), []string{"b", "a", "B", "A"}) {
		t.Errorf("id desc = %v", ids(items))
	}
}

func TestCompare_Relevance(t *testing.T) {
	c := NewComparator(language.English)
	a, b := mk(t, "a", en("A")), mk(t, "b", en("B"))
	if c.Compare(&a, &b, Relevance) != 0 {
		t.Error("relevance compare must be 0")
	}
	if c.Compare(&a, &b, TitleAsc) >= 0 || c.Compare(&a, &b, TitleDesc) <= 0 {
		t.Error("title compare sign mismatch")
	}
}

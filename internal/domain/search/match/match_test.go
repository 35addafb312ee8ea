package match

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/catalog/internal/domain/item"
)

func mkItem(t *testing.T, id string, titles ...item.Text) item.Item {
	t.Helper()
	it, err := item.New(id, item.NewLocalized(titles...), item.Localized{}, nil, item.Attributes{})
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return it
}

func TestMatches(t *testing.T) {
	it := mkItem(t, "P1-Kangyur", item.Text{Lang: "en", Value: "Alpha Sutra"}, item.Text{Lang: "bo", Value: "ཀ་ཁ"})

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"alp", true},
		{"sutra", true},
		{"p1-k", true},
		{"kangyur", true},
		{"ཁ", true},
		{"beta", false},
		{"alpha sutra!", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.term, &it); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestMatches_NoTitles(t *testing.T) {
	it := mkItem(t, "X9")
	if !Matches("x9", &it) {
		t.Error("identifier match expected")
	}
	if Matches("y", &it) {
		t.Error("unexpected match")
	}
}

func TestFilter_Scenario(t *testing.T) {
	items := []item.Item{
		mkItem(t, "P1", item.Text{Lang: "en", Value: "Alpha"}),
		mkItem(t, "P2", item.Text{Lang: "en", Value: "Beta"}),
	}
	got := Filter(Normalize("alp"), items)
	if len(got) != 1 || got[0].ID() != "P1" {
		t.Fatalf("Filter() = %v", got)
	}
	if len(items) != 2 || items[1].ID() != "P2" {
		t.Error("input slice was modified")
	}
}

func TestFilter_EmptyTermKeepsAll(t *testing.T) {
	items := []item.Item{mkItem(t, "a"), mkItem(t, "b"), mkItem(t, "c")}
	got := Filter("", items)
	if len(got) != 3 {
		t.Fatalf("Filter(\"\") returned %d items", len(got))
	}
	for i := range items {
		if got[i].ID() != items[i].ID() {
			t.Errorf("order changed at %d", i)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  AlPhA \t"); got != "alpha" {
		t.Errorf("Normalize() = %q", got)
	}
	long := strings.Repeat("a", MaxTermLength+3)
	if got := Normalize(long); got != long {
		t.Errorf("Normalize() changed a long term to %d bytes", len(got))
	}
}

func TestMatches_LongTermNotPrefix(t *testing.T) {
	title := strings.Repeat("a", MaxTermLength)
	it := mkItem(t, "X1", item.Text{Lang: "en", Value: title})
	if Matches(Normalize(title+"zzz"), &it) {
		t.Error("term longer than every title must not match")
	}
	if !Matches(Normalize(title), &it) {
		t.Error("exact title must match")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty", "", false},
		{"at limit", strings.Repeat("a", MaxTermLength), false},
		{"padded at limit", "  " + strings.Repeat("a", MaxTermLength) + " ", false},
		{"over limit", strings.Repeat("a", MaxTermLength+1), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.raw)
			if tc.wantErr != errors.Is(err, ErrTermTooLong) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

package item

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	it, err := New("P1",
		NewLocalized(Text{"bo", "ཀ"}, Text{"en", "Alpha"}),
		Localized{},
		map[Relation]string{CommentaryOf: "P0", TranslationOf: ""},
		Attributes{Type: "text", Language: "bo"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID() != "P1" {
		t.Errorf("ID() = %q", it.ID())
	}
	if it.Title() != "Alpha" {
		t.Errorf("Title() = %q, want English entry", it.Title())
	}
	if target, ok := it.Related(CommentaryOf); !ok || target != "P0" {
		t.Errorf("Related(commentary_of) = %q, %v", target, ok)
	}
	if _, ok := it.Related(TranslationOf); ok {
		t.Error("empty relation target should be absent")
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", Localized{}, Localized{}, nil, Attributes{})
	if err == nil || !strings.Contains(err.Error(), "ID is required") {
		t.Fatalf("error = %v", err)
	}
}

func TestNew_UnknownRelation(t *testing.T) {
	_, err := New("x", Localized{}, Localized{}, map[Relation]string{"parent_of": "y"}, Attributes{})
	if err == nil || !strings.Contains(err.Error(), "unknown relation") {
		t.Fatalf("error = %v", err)
	}
}

func TestField(t *testing.T) {
	it, _ := New("x", Localized{}, Localized{}, map[Relation]string{VersionOf: "y"}, Attributes{Category: "c1"})
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"id", "x", true},
		{"category", "c1", true},
		{"type", "", false},
		{"version_of", "y", true},
		{"commentary_of", "", false},
		{"unknown", "", false},
	}
	for _, tt := range tests {
		got, ok := it.Field(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Field(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLocalized_Best(t *testing.T) {
	tests := []struct {
		name string
		l    Localized
		want string
	}{
		{"english wins", NewLocalized(Text{"fr", "Alpha-fr"}, Text{"en", "Alpha"}), "Alpha"},
		{"first entry", NewLocalized(Text{"fr", "Bonjour"}, Text{"de", "Hallo"}), "Bonjour"},
		{"empty", Localized{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.l.Best(); got != tt.want {
				t.Errorf("Best() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalized_DuplicateLanguageKeepsPosition(t *testing.T) {
	l := NewLocalized(Text{"fr", "a"}, Text{"de", "b"}, Text{"fr", "c"})
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	e := l.Entries()
	if e[0].Lang != "fr" || e[0].Value != "c" {
		t.Errorf("first entry = %+v", e[0])
	}
}

func TestLocalized_UnmarshalKeepsOrder(t *testing.T) {
	var l Localized
	if err := json.Unmarshal([]byte(`{"zh":"一","fr":"un","n":5,"de":"eins"}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := l.Values()
	want := []string{"一", "un", "eins"}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if l.Best() != "一" {
		t.Errorf("Best() = %q, want first entry", l.Best())
	}

	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"zh":"一","fr":"un","de":"eins"}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestLocalized_UnmarshalNullAndInvalid(t *testing.T) {
	var l Localized
	if err := json.Unmarshal([]byte(`null`), &l); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !l.IsEmpty() {
		t.Error("null should decode to empty")
	}
	if err := json.Unmarshal([]byte(`["en"]`), &l); err == nil {
		t.Error("expected error for array")
	}
}

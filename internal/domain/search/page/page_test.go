package page

import "testing"

func TestFirst_Clamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tt := range tests {
		c := First(tt.in)
		if c.Page() != 1 || c.Limit() != tt.want {
			t.Errorf("First(%d) = %s", tt.in, c)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Error("expected error for page 0")
	}
	if _, err := New(1, 0); err == nil {
		t.Error("expected error for limit 0")
	}
	if _, err := New(1, MaxLimit+1); err == nil {
		t.Error("expected error for limit above max")
	}
}

func TestNext(t *testing.T) {
	c := First(20).Next().Next()
	if c.Page() != 3 || c.Limit() != 20 || c.Offset() != 40 {
		t.Errorf("Next().Next() = %s offset=%d", c, c.Offset())
	}
}

func TestHasMoreAfter(t *testing.T) {
	c, _ := New(2, 20)
	tests := []struct {
		total int
		want  bool
	}{
		{41, true},
		{40, false},
		{39, false},
		{-1, false},
	}
	for _, tt := range tests {
		if got := HasMoreAfter(c, tt.total); got != tt.want {
			t.Errorf("HasMoreAfter(total=%d) = %v", tt.total, got)
		}
	}
}

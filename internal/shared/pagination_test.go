package shared

import "testing"

func TestNewPageClamps(t *testing.T) {
	cases := []struct {
		number, size    int
		wantNum, wantSz int
		wantOffset      int
	}{
		{1, 20, 1, 20, 0},
		{0, 0, 1, DefaultPageSize, 0},
		{-5, -1, 1, DefaultPageSize, 0},
		{3, 10, 3, 10, 20},
		{2, 500, 2, MaxPageSize, 100},
	}
	for _, c := range cases {
		p := NewPage(c.number, c.size)
		if p.Number != c.wantNum || p.Size != c.wantSz {
			t.Fatalf("NewPage(%d, %d) = %+v", c.number, c.size, p)
		}
		if p.Offset() != c.wantOffset {
			t.Fatalf("Offset for %+v = %d, want %d", p, p.Offset(), c.wantOffset)
		}
	}
}

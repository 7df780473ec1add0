package plan

import "testing"

func TestSubrangesCoverage(t *testing.T) {
	cases := []struct {
		start, stop uint64
		threads     int
	}{
		{0, 1 << 24, 4},
		{0, 1 << 24, 1},
		{30, 1<<26 + 17, 8},
		{0, 100, 16}, // tiny range collapses to one worker
		{0, 1 << 22, 4},
	}
	for _, c := range cases {
		got := Subranges(c.start, c.stop, c.threads)
		if len(got) == 0 || len(got) > c.threads {
			t.Fatalf("[%d,%d]/%d: %d subranges", c.start, c.stop, c.threads, len(got))
		}
		if got[0][0] != c.start || got[len(got)-1][1] != c.stop {
			t.Fatalf("[%d,%d]: plan ends %v", c.start, c.stop, got)
		}
		for i, sub := range got {
			if sub[0] > sub[1] {
				t.Fatalf("subrange %d inverted: %v", i, sub)
			}
			if i > 0 && sub[0] != got[i-1][1]+1 {
				t.Fatalf("gap between subranges %d and %d: %v", i-1, i, got)
			}
		}
	}
}

func TestSubrangesAlignment(t *testing.T) {
	got := Subranges(0, 1<<26, 4)
	if len(got) < 2 {
		t.Skip("range did not split")
	}
	for _, sub := range got[:len(got)-1] {
		if (sub[1]+1)%30 != 0 {
			t.Fatalf("interior boundary %d not on the 30-grid", sub[1])
		}
	}
}

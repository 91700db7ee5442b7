package jql

import (
	"sync"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"show me all bugs", 4},
	}
	for _, c := range cases {
		if got := EstimateTokens(c.in); got != c.want {
			t.Fatalf("EstimateTokens(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTokenTrackerConcurrent(t *testing.T) {
	tr := NewTokenTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Track(10, 5)
		}()
	}
	wg.Wait()

	st := tr.Stats()
	if st.TotalQueries != 50 {
		t.Fatalf("TotalQueries = %d", st.TotalQueries)
	}
	if st.TotalInputTokens != 500 || st.TotalOutputTokens != 250 || st.TotalTokens != 750 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestTokenTrackerReset(t *testing.T) {
	tr := NewTokenTracker()
	tr.Track(100, 50)
	tr.Reset()
	st := tr.Stats()
	if st.TotalQueries != 0 || st.TotalTokens != 0 {
		t.Fatalf("stats after reset = %+v", st)
	}
}

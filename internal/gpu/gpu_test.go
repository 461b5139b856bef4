package gpu

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestIndexList(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "0"},
		{2, "0,1"},
		{4, "0,1,2,3"},
		{8, "0,1,2,3,4,5,6,7"},
	}

	for _, c := range cases {
		got, err := IndexList(c.n)
		if err != nil {
			t.Fatalf("IndexList(%d): unexpected error: %v", c.n, err)
		}
		if got != c.want {
			t.Errorf("IndexList(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestIndexListMatchesJoin(t *testing.T) {
	// For any n, the result equals the join of "0".."n-1" and its length is
	// the sum of digit lengths plus n-1 separators.
	for n := 1; n <= 64; n++ {
		parts := make([]string, n)
		wantLen := n - 1
		for i := 0; i < n; i++ {
			parts[i] = strconv.Itoa(i)
			wantLen += len(parts[i])
		}
		want := strings.Join(parts, ",")

		got, err := IndexList(n)
		if err != nil {
			t.Fatalf("IndexList(%d): unexpected error: %v", n, err)
		}
		if got != want {
			t.Errorf("IndexList(%d) = %q, want %q", n, got, want)
		}
		if len(got) != wantLen {
			t.Errorf("IndexList(%d): length %d, want %d", n, len(got), wantLen)
		}
	}
}

func TestIndexListRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1, -8} {
		if _, err := IndexList(n); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("IndexList(%d): expected ErrInvalidCount, got %v", n, err)
		}
		if _, err := Indices(n); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Indices(%d): expected ErrInvalidCount, got %v", n, err)
		}
	}
}

func TestParseIndexList(t *testing.T) {
	ids, err := ParseIndexList("0,1,2,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("expected 4 indices, got %d", len(ids))
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("ids[%d] = %d, want %d", i, id, i)
		}
	}

	// Non-contiguous lists are valid (scheduler-assigned devices)
	ids, err = ParseIndexList("2,5,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 7 {
		t.Errorf("ParseIndexList(\"2,5,7\") = %v", ids)
	}
}

func TestParseIndexListRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "  ", "a,b", "0,,1", "0,1,1", "-1", "0,-2"} {
		if _, err := ParseIndexList(in); !errors.Is(err, ErrInvalidIndexList) {
			t.Errorf("ParseIndexList(%q): expected ErrInvalidIndexList, got %v", in, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{1, 4, 8, 16} {
		list, err := IndexList(n)
		if err != nil {
			t.Fatalf("IndexList(%d): %v", n, err)
		}
		count, err := Count(list)
		if err != nil {
			t.Fatalf("Count(%q): %v", list, err)
		}
		if count != n {
			t.Errorf("Count(IndexList(%d)) = %d", n, count)
		}
	}
}

func TestCountFromEnv(t *testing.T) {
	t.Setenv(CudaVisibleDevicesKey, "0,1,2")
	if got := CountFromEnv(); got != 3 {
		t.Errorf("CountFromEnv() = %d, want 3", got)
	}

	t.Setenv(CudaVisibleDevicesKey, "")
	if got := CountFromEnv(); got != 0 {
		t.Errorf("CountFromEnv() with empty var = %d, want 0", got)
	}

	t.Setenv(CudaVisibleDevicesKey, "not,numbers")
	if got := CountFromEnv(); got != 0 {
		t.Errorf("CountFromEnv() with malformed var = %d, want 0", got)
	}
}

package gameweek

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		total    int
		tiebreak bool
		want     ID
		wantErr  bool
	}{
		{name: "numeric", raw: "7", total: 10, want: ID("7")},
		{name: "trims and lowercases", raw: " TIEBREAK ", total: 10, tiebreak: true, want: Tiebreak},
		{name: "tiebreak disabled", raw: "tiebreak", total: 10, wantErr: true},
		{name: "zero", raw: "0", total: 10, wantErr: true},
		{name: "out of range", raw: "11", total: 10, wantErr: true},
		{name: "garbage", raw: "gw3", total: 10, wantErr: true},
		{name: "empty", raw: "", total: 10, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.raw, tc.total, tc.tiebreak)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	seq := Sequence(3, true)
	want := []ID{"1", "2", "3", Tiebreak}
	if len(seq) != len(want) {
		t.Fatalf("got %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("got %v, want %v", seq, want)
		}
	}

	if got := Sequence(3, false); len(got) != 3 {
		t.Fatalf("expected 3 gameweeks without tiebreak, got %v", got)
	}
}

func TestPrevious(t *testing.T) {
	t.Parallel()

	seq := Sequence(10, true)

	if _, ok := Previous(ID("1"), seq); ok {
		t.Fatal("first gameweek should have no previous")
	}

	prev, ok := Previous(Tiebreak, seq)
	if !ok || prev != ID("10") {
		t.Fatalf("previous of tiebreak = %q ok=%t, want 10", prev, ok)
	}

	if _, ok := Previous(ID("99"), seq); ok {
		t.Fatal("unknown gameweek should have no previous")
	}
}

func TestUpTo(t *testing.T) {
	t.Parallel()

	seq := Sequence(10, false)
	prefix, ok := UpTo(ID("4"), seq)
	if !ok || len(prefix) != 4 {
		t.Fatalf("UpTo(4) = %v ok=%t", prefix, ok)
	}

	if _, ok := UpTo(Tiebreak, seq); ok {
		t.Fatal("tiebreak not in sequence should report false")
	}
}

func TestLess(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b ID
		want bool
	}{
		{name: "numeric order", a: "2", b: "3", want: true},
		{name: "double digits after single", a: "2", b: "10", want: true},
		{name: "not lexicographic", a: "10", b: "2", want: false},
		{name: "tiebreak last", a: "10", b: Tiebreak, want: true},
		{name: "tiebreak never first", a: Tiebreak, b: "1", want: false},
		{name: "equal", a: "4", b: "4", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Less(tc.a, tc.b); got != tc.want {
				t.Fatalf("Less(%q, %q) = %t, want %t", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key(2, ID("7")); got != "edition2_gw7" {
		t.Fatalf("got %q", got)
	}
	if got := Key(1, Tiebreak); got != "edition1_gwtiebreak" {
		t.Fatalf("got %q", got)
	}
}

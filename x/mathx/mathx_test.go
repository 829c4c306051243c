package mathx

import "testing"

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want uint32 }{
		{0, 30, 0},
		{30, 30, 1},
		{31, 30, 2},
		{200, 30, 7},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := CeilDiv(c.a, c.b); got != c.want {
			t.Fatalf("CeilDiv(%d,%d)=%d want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestPow2Helpers(t *testing.T) {
	if !IsPow2(uint32(256*1024)) || IsPow2(uint32(0)) || IsPow2(uint32(3)) {
		t.Fatal("IsPow2 mismatch")
	}
	if got := Log2(uint32(256 * 1024)); got != 18 {
		t.Fatalf("Log2=%d", got)
	}
	if got := CeilPow2(uint32(300)); got != 512 {
		t.Fatalf("CeilPow2(300)=%d", got)
	}
	if got := CeilPow2(uint32(64)); got != 64 {
		t.Fatalf("CeilPow2(64)=%d", got)
	}
	if !AlignedTo(uint32(0x20010000), uint32(64*1024)) {
		t.Fatal("0x20010000 should be 64K aligned")
	}
	if AlignedTo(uint32(0x20010000), uint32(256*1024)) {
		t.Fatal("0x20010000 is not 256K aligned")
	}
}

func TestBetweenOneOf(t *testing.T) {
	if !Between(5, 1, 5) || Between(6, 1, 5) {
		t.Fatal("Between mismatch")
	}
	if !OneOf(4, 2, 4, 6, 8) || OneOf(3, 2, 4, 6, 8) {
		t.Fatal("OneOf mismatch")
	}
}

package euclid

import (
	"math/big"
	"testing"
)

func bi(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal: " + s)
	}
	return n
}

func TestGcdBezoutKnownCase(t *testing.T) {
	gcd, x, y := GcdBezout(bi("3120"), bi("17"))
	if gcd.Cmp(bi("1")) != 0 {
		t.Fatalf("gcd = %s, want 1", gcd)
	}
	if x.Cmp(bi("2")) != 0 {
		t.Errorf("x = %s, want 2", x)
	}
	if y.Cmp(bi("-367")) != 0 {
		t.Errorf("y = %s, want -367", y)
	}
}

func TestGcdBezoutZeroOperand(t *testing.T) {
	gcd, x, y := GcdBezout(bi("0"), bi("7"))
	if gcd.Cmp(bi("7")) != 0 || x.Sign() != 0 || y.Cmp(bi("1")) != 0 {
		t.Errorf("GcdBezout(0, 7) = (%s, %s, %s), want (7, 0, 1)", gcd, x, y)
	}

	gcd, x, y = GcdBezout(bi("9"), bi("0"))
	if gcd.Cmp(bi("9")) != 0 || x.Cmp(bi("1")) != 0 || y.Sign() != 0 {
		t.Errorf("GcdBezout(9, 0) = (%s, %s, %s), want (9, 1, 0)", gcd, x, y)
	}
}

func TestGcdBezoutIdentityHolds(t *testing.T) {
	cases := [][2]string{
		{"240", "46"},
		{"17", "3120"},
		{"404790586766519", "65537"},
		{"1", "1"},
		{"123456789", "987654321"},
	}
	for _, c := range cases {
		a, b := bi(c[0]), bi(c[1])
		gcd, x, y := GcdBezout(a, b)
		got := new(big.Int).Add(new(big.Int).Mul(a, x), new(big.Int).Mul(b, y))
		if got.Cmp(gcd) != 0 {
			t.Errorf("GcdBezout(%s, %s): %s*%s + %s*%s = %s, want gcd %s", c[0], c[1], a, x, b, y, got, gcd)
		}
	}
}

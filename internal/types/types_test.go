package types

import "testing"

func TestMoneyString(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{Money{Amount: 99, Currency: "USD"}, "$0.99"},
		{Money{Amount: 299, Currency: "USD"}, "$2.99"},
		{Money{Amount: 1250}, "$12.50"},
		{Money{Amount: 500, Currency: "EUR"}, "EUR 5.00"},
		{Money{Amount: -5, Currency: "USD"}, "-$0.05"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}

package models

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "29.90", want: "29.90", ok: true},
		{raw: " 29,9 ", want: "29.90", ok: true},
		{raw: "10.005", want: "10.01", ok: true},
		{raw: "abc", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.raw)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseMoney(%q) err=%v", tc.raw, err)
		}
		if tc.ok && got.String() != tc.want {
			t.Fatalf("ParseMoney(%q) want %s got %s", tc.raw, tc.want, got.String())
		}
	}
	if got := ParseMoneyOrZero("-5"); !got.IsZero() {
		t.Fatalf("negative amount should become zero, got %s", got.String())
	}
}

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Price    Money `json:"price"`
		Discount Money `json:"discount"`
		Missing  Money `json:"missing"`
	}
	if err := json.Unmarshal([]byte(`{"price":"45,50","discount":12.345,"missing":null}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Price.String() != "45.50" || payload.Discount.String() != "12.35" || !payload.Missing.IsZero() {
		t.Fatalf("unexpected values: %s %s %s", payload.Price, payload.Discount, payload.Missing)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"price":"45.50","discount":"12.35","missing":"0.00"}` {
		t.Fatalf("unexpected json: %s", out)
	}
}

package money

import "testing"

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{123.456, 123.46},
		{123.454, 123.45},
		{123.455, 123.46}, // half rounds away from zero
		{-123.455, -123.46},
		{0, 0},
		{8727.272727, 8727.27},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); got != tt.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCents(t *testing.T) {
	if got := Cents(1330.604); got != 133060 {
		t.Errorf("Cents(1330.604) = %d, want 133060", got)
	}
	if got := Cents(-0.015); got != -2 {
		t.Errorf("Cents(-0.015) = %d, want -2", got)
	}
}

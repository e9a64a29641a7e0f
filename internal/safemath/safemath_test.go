package safemath

import (
	"math"
	"testing"
)

func TestAdd64(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOk bool
	}{
		{"zero plus zero", 0, 0, 0, true},
		{"small values", 1, 2, 3, true},
		{"at boundary", math.MaxUint64 - 1, 1, math.MaxUint64, true},
		{"overflow by one", math.MaxUint64, 1, 0, false},
		{"overflow large", math.MaxUint64, math.MaxUint64, math.MaxUint64 - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Add64(tt.a, tt.b)
			if ok != tt.wantOk {
				t.Errorf("Add64(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOk)
				return
			}
			if ok && got != tt.want {
				t.Errorf("Add64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSub64(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOk bool
	}{
		{"zero minus zero", 0, 0, 0, true},
		{"exact drain", 5, 5, 0, true},
		{"simple", 10, 3, 7, true},
		{"underflow by one", 0, 1, 0, false},
		{"underflow large", 3, math.MaxUint64, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sub64(tt.a, tt.b)
			if ok != tt.wantOk {
				t.Errorf("Sub64(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOk)
				return
			}
			if ok && got != tt.want {
				t.Errorf("Sub64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

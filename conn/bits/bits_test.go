// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bits

import "testing"

func TestSingleBit(t *testing.T) {
	if v := Set(0, 3); v != 0x08 {
		t.Fatalf("Set = %#x", v)
	}
	if v := Clear(0xFF, 0); v != 0xFE {
		t.Fatalf("Clear = %#x", v)
	}
	if v := Toggle(0x0F, 7); v != 0x8F {
		t.Fatalf("Toggle = %#x", v)
	}
	if !IsSet(0x80, 7) || IsSet(0x80, 6) {
		t.Fatal("IsSet")
	}
	if Assign(0x00, 1, true) != 0x02 || Assign(0x02, 1, false) != 0x00 {
		t.Fatal("Assign")
	}
}

func TestField(t *testing.T) {
	data := []struct {
		v          byte
		lsb, width uint
		want       byte
	}{
		{0xB4, 2, 3, 0x05},
		{0xFF, 0, 8, 0xFF},
		{0x0B, 0, 2, 0x03},
	}
	for i, line := range data {
		if got := Field(line.v, line.lsb, line.width); got != line.want {
			t.Fatalf("#%d: Field(%#x, %d, %d) = %#x; want %#x", i, line.v, line.lsb, line.width, got, line.want)
		}
	}
	if v := SetField(0x08, 0, 2, 0x07); v != 0x0B {
		t.Fatalf("SetField = %#x", v)
	}
	if v := SetField(0xFF, 4, 2, 0); v != 0xCF {
		t.Fatalf("SetField = %#x", v)
	}
}

func TestWord(t *testing.T) {
	if w := Word(0x12, 0x34); w != 0x1234 {
		t.Fatalf("Word = %#x", w)
	}
	if hi, lo := Split(0xABCD); hi != 0xAB || lo != 0xCD {
		t.Fatalf("Split = %#x %#x", hi, lo)
	}
	if v := SignExtend(0x3FF, 10); v != -1 {
		t.Fatalf("SignExtend = %d", v)
	}
	if v := SignExtend(0x1FF, 10); v != 511 {
		t.Fatalf("SignExtend = %d", v)
	}
}

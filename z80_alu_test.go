// z80_alu_test.go - flag-table properties, rotate edges, DAA, and the
// block/ED flag recipes

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import "testing"

// TestZ80AddFlagTableMatchesReference checks the precomputed add table
// against the flag recipe computed longhand: S from bit 7, Z from zero,
// H from nibble carry, V from signed overflow, C from unsigned carry,
// Y/X from result bits 5 and 3.
func TestZ80AddFlagTableMatchesReference(t *testing.T) {
	for carry := 0; carry < 2; carry++ {
		for a := 0; a < 256; a += 3 {
			for b := 0; b < 256; b += 5 {
				res := uint8(a + b + carry)
				var want uint8
				want = res & (zfS | zfY | zfX)
				if res == 0 {
					want |= zfZ
				}
				if (a&0x0F)+(b&0x0F)+carry > 0x0F {
					want |= zfH
				}
				if a+b+carry > 0xFF {
					want |= zfC
				}
				if (int8(a) >= 0) == (int8(b) >= 0) && (int8(res) >= 0) != (int8(a) >= 0) {
					want |= zfPV
				}
				got := szhvcAdd[carry<<16|a<<8|int(res)]
				if got != want {
					t.Fatalf("add table[%d,%02X,%02X→%02X] = %02X, want %02X",
						carry, a, b, res, got, want)
				}
			}
		}
	}
}

func TestZ80SubFlagTableMatchesReference(t *testing.T) {
	for carry := 0; carry < 2; carry++ {
		for a := 0; a < 256; a += 3 {
			for b := 0; b < 256; b += 5 {
				res := uint8(a - b - carry)
				want := zfN | res&(zfS|zfY|zfX)
				if res == 0 {
					want |= zfZ
				}
				if (a&0x0F)-(b&0x0F)-carry < 0 {
					want |= zfH
				}
				if a-b-carry < 0 {
					want |= zfC
				}
				if (int8(a) >= 0) != (int8(b) >= 0) && (int8(res) >= 0) != (int8(a) >= 0) {
					want |= zfPV
				}
				got := szhvcSub[carry<<16|a<<8|int(res)]
				if got != want {
					t.Fatalf("sub table[%d,%02X,%02X→%02X] = %02X, want %02X",
						carry, a, b, res, got, want)
				}
			}
		}
	}
}

func TestZ80RotateEdgeValues(t *testing.T) {
	cases := []struct {
		name     string
		op       byte // CB page opcode on B
		in       uint8
		carryIn  bool
		out      uint8
		outF     uint8
	}{
		{"RLC 80", 0x00, 0x80, false, 0x01, 0x01},
		{"RLC 01", 0x00, 0x01, false, 0x02, 0x00},
		{"RRC 01", 0x08, 0x01, false, 0x80, zfS | 0x01},
		{"RRC 80", 0x08, 0x80, false, 0x40, 0x00},
		{"RL 80 no carry", 0x10, 0x80, false, 0x00, zfZ | zfPV | zfC},
		{"RL 80 carry", 0x10, 0x80, true, 0x01, zfC},
		{"RR 01 carry", 0x18, 0x01, true, 0x80, zfS | zfC},
		{"SRL 01", 0x38, 0x01, false, 0x00, zfZ | zfPV | zfC},
		{"SRA 80", 0x28, 0x80, false, 0xC0, zfS | zfPV},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newZ80Rig(t, 0xCB, tc.op)
			r.cpu.B = tc.in
			if tc.carryIn {
				r.cpu.F = zfC
			}
			r.cpu.Step()
			requireU8(t, "B", r.cpu.B, tc.out)
			requireU8(t, "F", r.cpu.F, tc.outF)
		})
	}
}

func TestZ80BitTestUndocumentedFlags(t *testing.T) {
	r := newZ80Rig(t, 0xCB, 0x78) // bit 7,b
	r.cpu.B = 0x80
	r.cpu.F = zfC
	r.cpu.Step()
	// S set (bit 7 tested and set), H always, C preserved, Z/PV clear.
	requireU8(t, "F", r.cpu.F, zfS|zfH|zfC|r.cpu.B&(zfY|zfX))

	r = newZ80Rig(t, 0xCB, 0x40) // bit 0,b
	r.cpu.B = 0x00
	r.cpu.Step()
	requireU8(t, "F zero bit", r.cpu.F, zfZ|zfPV|zfH)
}

func TestZ80BitHLUsesWZForXY(t *testing.T) {
	r := newZ80Rig(t,
		0x21, 0x00, 0x80, // ld hl,$8000
		0x09,       // add hl,bc (sets WZ = HL+1)
		0xCB, 0x46, // bit 0,(hl)
	)
	r.mem[0x8000] = 0x29 // bit 0 set, plus both undocumented bits
	r.cpu.SetBC(0)

	r.cpu.Step()
	r.cpu.Step() // WZ = 0x8001
	r.cpu.Step()

	// Y/X mirror WZ's high byte (0x80 carries neither), not the operand.
	if r.cpu.F&(zfY|zfX) != 0 {
		t.Errorf("F = %02X: Y/X do not track WZ high byte", r.cpu.F)
	}
	if r.cpu.F&zfZ != 0 {
		t.Error("Z set though bit 0 is set")
	}
}

func TestZ80IncDecFlagEdges(t *testing.T) {
	r := newZ80Rig(t, 0x04) // inc b
	r.cpu.B = 0x7F
	r.cpu.F = zfC
	r.cpu.Step()
	requireU8(t, "B", r.cpu.B, 0x80)
	requireU8(t, "F", r.cpu.F, zfS|zfH|zfPV|zfC) // C untouched

	r = newZ80Rig(t, 0x05) // dec b
	r.cpu.B = 0x80
	r.cpu.Step()
	requireU8(t, "B", r.cpu.B, 0x7F)
	requireU8(t, "F", r.cpu.F, zfH|zfPV|zfN|zfY|zfX)
}

func TestZ80DAAAfterAdd(t *testing.T) {
	r := newZ80Rig(t, 0x80, 0x27) // add a,b; daa
	r.cpu.A = 0x15
	r.cpu.B = 0x27
	r.cpu.Step()
	requireU8(t, "binary sum", r.cpu.A, 0x3C)
	r.cpu.Step()
	requireU8(t, "decimal sum", r.cpu.A, 0x42)

	r = newZ80Rig(t, 0x80, 0x27)
	r.cpu.A = 0x99
	r.cpu.B = 0x01
	r.cpu.Step()
	r.cpu.Step()
	requireU8(t, "decimal wrap", r.cpu.A, 0x00)
	if r.cpu.F&zfC == 0 {
		t.Error("decimal carry lost")
	}
}

func TestZ80CpUsesOperandForXY(t *testing.T) {
	r := newZ80Rig(t, 0xB8) // cp b
	r.cpu.A = 0x00
	r.cpu.B = 0x28 // bits 5 and 3 both set
	r.cpu.Step()
	if r.cpu.F&(zfY|zfX) != zfY|zfX {
		t.Errorf("F = %02X: CP must take Y/X from the operand", r.cpu.F)
	}
	requireU8(t, "A untouched", r.cpu.A, 0x00)
}

func TestZ80AndSetsH(t *testing.T) {
	r := newZ80Rig(t, 0xA1) // and c
	r.cpu.A = 0xF0
	r.cpu.C = 0x0F
	r.cpu.Step()
	requireU8(t, "A", r.cpu.A, 0x00)
	requireU8(t, "F", r.cpu.F, zfZ|zfPV|zfH)
}

func TestZ80AdcSbcHL(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x4A) // adc hl,bc
	r.cpu.SetHL(0x7FFF)
	r.cpu.SetBC(0x0001)
	r.cpu.Step()
	requireU16(t, "HL", r.cpu.HL(), 0x8000)
	if r.cpu.F&zfPV == 0 || r.cpu.F&zfS == 0 {
		t.Errorf("F = %02X: overflow into bit 15 missed", r.cpu.F)
	}

	r = newZ80Rig(t, 0xED, 0x42) // sbc hl,bc
	r.cpu.SetHL(0x0000)
	r.cpu.SetBC(0x0001)
	r.cpu.Step()
	requireU16(t, "HL", r.cpu.HL(), 0xFFFF)
	if r.cpu.F&zfC == 0 || r.cpu.F&zfN == 0 {
		t.Errorf("F = %02X: borrow flags missed", r.cpu.F)
	}
}

func TestZ80NegMirrors(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x44)
	r.cpu.A = 0x01
	r.cpu.Step()
	requireU8(t, "A", r.cpu.A, 0xFF)
	if r.cpu.F&zfC == 0 {
		t.Error("NEG of nonzero must carry")
	}

	r = newZ80Rig(t, 0xED, 0x54) // undocumented mirror
	r.cpu.A = 0x80
	r.cpu.Step()
	requireU8(t, "A mirror", r.cpu.A, 0x80)
	if r.cpu.F&zfPV == 0 {
		t.Error("NEG of 0x80 must overflow")
	}
}

func TestZ80RrdRld(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x67) // rrd
	r.cpu.SetHL(0x8000)
	r.cpu.A = 0x84
	r.mem[0x8000] = 0x20
	r.cpu.Step()
	requireU8(t, "A", r.cpu.A, 0x80)
	requireU8(t, "(HL)", r.mem[0x8000], 0x42)

	r = newZ80Rig(t, 0xED, 0x6F) // rld
	r.cpu.SetHL(0x8000)
	r.cpu.A = 0x84
	r.mem[0x8000] = 0x20
	r.cpu.Step()
	requireU8(t, "A rld", r.cpu.A, 0x82)
	requireU8(t, "(HL) rld", r.mem[0x8000], 0x04)
}

func TestZ80LdAIExposesIFF2(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x57) // ld a,i
	r.cpu.I = 0x42
	r.cpu.IFF2 = true
	r.cpu.Step()
	requireU8(t, "A", r.cpu.A, 0x42)
	if r.cpu.F&zfPV == 0 {
		t.Error("PF must mirror IFF2")
	}
}

func TestZ80CpiFlags(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0xA1) // cpi
	r.cpu.A = 0x3B
	r.cpu.SetHL(0x8000)
	r.cpu.SetBC(0x0002)
	r.mem[0x8000] = 0x3B

	r.cpu.Step()

	requireU16(t, "HL", r.cpu.HL(), 0x8001)
	requireU16(t, "BC", r.cpu.BC(), 0x0001)
	if r.cpu.F&zfZ == 0 {
		t.Error("Z clear on equal compare")
	}
	if r.cpu.F&zfPV == 0 {
		t.Error("PV clear while BC is nonzero")
	}
	requireU8(t, "A untouched", r.cpu.A, 0x3B)
}

func TestZ80CpirStopsOnMatch(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0xB1) // cpir
	r.cpu.A = 0x22
	r.cpu.SetHL(0x8000)
	r.cpu.SetBC(0x0010)
	copy(r.mem[0x8000:], []byte{0x11, 0x22, 0x33})

	r.cpu.Step() // no match: rewinds
	requireU16(t, "PC rewound", r.cpu.PC, 0x0000)
	r.cpu.Step() // match on 0x22: falls through
	requireU16(t, "PC done", r.cpu.PC, 0x0002)
	requireU16(t, "HL", r.cpu.HL(), 0x8002)
}

func TestZ80OutiDecrementsB(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0xA3) // outi
	r.cpu.B = 0x02
	r.cpu.C = 0x7F
	r.cpu.SetHL(0x8000)
	r.mem[0x8000] = 0x99

	r.cpu.Step()

	requireU8(t, "B", r.cpu.B, 0x01)
	requireU16(t, "HL", r.cpu.HL(), 0x8001)
	if len(r.outValues) != 1 || r.outValues[0] != 0x99 {
		t.Fatalf("out log = %v", r.outValues)
	}
	// The port carries the already-decremented B in its high byte.
	requireU16(t, "port", r.outPorts[0], 0x017F)
}

func TestZ80IndexedArithmetic(t *testing.T) {
	r := newZ80Rig(t, 0xDD, 0x86, 0x05) // add a,(ix+5)
	r.cpu.IX = 0x8000
	r.cpu.A = 0x10
	r.mem[0x8005] = 0x22

	cycles := r.cpu.Step()

	requireU8(t, "A", r.cpu.A, 0x32)
	requireU16(t, "WZ", r.cpu.WZ, 0x8005)
	if cycles != 19 {
		t.Errorf("cycles = %d, want 19", cycles)
	}
}

func TestZ80IndexedHalves(t *testing.T) {
	r := newZ80Rig(t, 0xFD, 0x2C) // inc iyl (undocumented)
	r.cpu.IY = 0x12FF

	r.cpu.Step()

	requireU16(t, "IY", r.cpu.IY, 0x1200)
	if r.cpu.F&zfZ == 0 {
		t.Error("Z clear after wrap to zero")
	}
}

func TestZ80DDCBResultCopiesToRegister(t *testing.T) {
	r := newZ80Rig(t, 0xDD, 0xCB, 0x02, 0xC0) // set 0,(ix+2),b
	r.cpu.IX = 0x8000
	r.mem[0x8002] = 0x00

	cycles := r.cpu.Step()

	requireU8(t, "memory", r.mem[0x8002], 0x01)
	requireU8(t, "B copy", r.cpu.B, 0x01)
	if cycles != 23 {
		t.Errorf("cycles = %d, want 23", cycles)
	}
}

func TestZ80DDCBBitUsesDisplacedAddress(t *testing.T) {
	r := newZ80Rig(t, 0xDD, 0xCB, 0xFE, 0x46) // bit 0,(ix-2)
	r.cpu.IX = 0x8002
	r.mem[0x8000] = 0x01

	cycles := r.cpu.Step()

	if r.cpu.F&zfZ != 0 {
		t.Error("Z set though the displaced byte has bit 0 set")
	}
	if cycles != 20 {
		t.Errorf("cycles = %d, want 20", cycles)
	}
}

// z80_timing_test.go - per-opcode T-state accounting across the prefix
// pages

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import "testing"

func stepCycles(t *testing.T, r *z80Rig) uint64 {
	t.Helper()
	return r.cpu.Step()
}

func TestZ80MainPageTiming(t *testing.T) {
	cases := []struct {
		name    string
		program []byte
		setup   func(*Z80)
		want    uint64
	}{
		{"NOP", []byte{0x00}, nil, 4},
		{"LD B,n", []byte{0x06, 0x12}, nil, 7},
		{"LD B,C", []byte{0x41}, nil, 4},
		{"LD B,(HL)", []byte{0x46}, nil, 7},
		{"INC (HL)", []byte{0x34}, nil, 11},
		{"LD BC,nn", []byte{0x01, 0x34, 0x12}, nil, 10},
		{"ADD HL,BC", []byte{0x09}, nil, 11},
		{"JP nn", []byte{0xC3, 0x00, 0x10}, nil, 10},
		{"JR", []byte{0x18, 0x05}, nil, 12},
		{"JR NZ taken", []byte{0x20, 0x05}, func(z *Z80) { z.F &^= zfZ }, 12},
		{"JR NZ not taken", []byte{0x20, 0x05}, func(z *Z80) { z.F |= zfZ }, 7},
		{"DJNZ taken", []byte{0x10, 0x05}, func(z *Z80) { z.B = 2 }, 13},
		{"DJNZ expired", []byte{0x10, 0x05}, func(z *Z80) { z.B = 1 }, 8},
		{"CALL nn", []byte{0xCD, 0x00, 0x10}, nil, 17},
		{"RET", []byte{0xC9}, nil, 10},
		{"RET NZ taken", []byte{0xC0}, func(z *Z80) { z.F &^= zfZ }, 11},
		{"RET NZ not taken", []byte{0xC0}, func(z *Z80) { z.F |= zfZ }, 5},
		{"CALL NZ taken", []byte{0xC4, 0x00, 0x10}, func(z *Z80) { z.F &^= zfZ }, 17},
		{"CALL NZ not taken", []byte{0xC4, 0x00, 0x10}, func(z *Z80) { z.F |= zfZ }, 10},
		{"PUSH BC", []byte{0xC5}, nil, 11},
		{"POP BC", []byte{0xC1}, nil, 10},
		{"RST 38", []byte{0xFF}, nil, 11},
		{"EX (SP),HL", []byte{0xE3}, nil, 19},
		{"LD SP,HL", []byte{0xF9}, nil, 6},
		{"OUT (n),A", []byte{0xD3, 0x7F}, nil, 11},
		{"IN A,(n)", []byte{0xDB, 0x7F}, nil, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newZ80Rig(t, tc.program...)
			if tc.setup != nil {
				tc.setup(r.cpu)
			}
			if got := stepCycles(t, r); got != tc.want {
				t.Errorf("cycles = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestZ80PrefixTiming(t *testing.T) {
	cases := []struct {
		name    string
		program []byte
		want    uint64
	}{
		{"CB RLC B", []byte{0xCB, 0x00}, 8},
		{"CB RLC (HL)", []byte{0xCB, 0x06}, 15},
		{"CB BIT 0,(HL)", []byte{0xCB, 0x46}, 12},
		{"ED LD I,A", []byte{0xED, 0x47}, 9},
		{"ED IN B,(C)", []byte{0xED, 0x40}, 12},
		{"ED SBC HL,BC", []byte{0xED, 0x42}, 15},
		{"ED LD (nn),BC", []byte{0xED, 0x43, 0x00, 0x90}, 20},
		{"ED RLD", []byte{0xED, 0x6F}, 18},
		{"ED LDI", []byte{0xED, 0xA0}, 16},
		{"DD LD IX,nn", []byte{0xDD, 0x21, 0x34, 0x12}, 14},
		{"DD INC IX", []byte{0xDD, 0x23}, 10},
		{"DD LD B,(IX+d)", []byte{0xDD, 0x46, 0x01}, 19},
		{"DD INC (IX+d)", []byte{0xDD, 0x34, 0x01}, 23},
		{"DD PUSH IX", []byte{0xDD, 0xE5}, 15},
		{"DD ADD IX,BC", []byte{0xDD, 0x09}, 15},
		{"DDCB RLC (IX+d)", []byte{0xDD, 0xCB, 0x01, 0x06}, 23},
		{"DDCB BIT 0,(IX+d)", []byte{0xDD, 0xCB, 0x01, 0x46}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newZ80Rig(t, tc.program...)
			r.cpu.SetBC(1) // keep LDI off page zero
			r.cpu.SetHL(0x8000)
			r.cpu.SetDE(0x9000)
			r.cpu.IX = 0x8000
			if got := stepCycles(t, r); got != tc.want {
				t.Errorf("cycles = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestZ80BlockRepeatTiming(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0xB0) // ldir
	r.cpu.SetHL(0x8000)
	r.cpu.SetDE(0x9000)
	r.cpu.SetBC(2)

	if got := r.cpu.Step(); got != 21 {
		t.Errorf("repeating iteration = %d, want 21", got)
	}
	if got := r.cpu.Step(); got != 16 {
		t.Errorf("final iteration = %d, want 16", got)
	}
}

func TestZ80ClockDividerScalesHostCycles(t *testing.T) {
	mem := make([]byte, 0x10000)
	m := NewMap([]*Chunk{{Start: 0, End: 0xFFFF, Flags: FlagRead | FlagWrite | FlagCode, Buffer: mem}})
	z := NewZ80(m, Z80Options{ClockDivider: 15})

	z.RunTo(1)
	// The 1-cycle deadline converts to a single T-state of budget; the
	// NOP overshoots it by 3 T-states, 45 host cycles.
	if z.CurrentCycle != 46 {
		t.Errorf("CurrentCycle = %d, want 46", z.CurrentCycle)
	}
}

func TestZ80SwappableCycleTables(t *testing.T) {
	r := newZ80Rig(t, 0x00)
	alt := make([]uint8, 256)
	for i := range alt {
		alt[i] = 6
	}
	r.cpu.SetCycleTables(alt, nil, nil, nil, nil, nil)

	if got := r.cpu.Step(); got != 6 {
		t.Errorf("cycles = %d, want 6 from the swapped table", got)
	}
}

// z80_tables.go - cycle tables and precomputed flag tables

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
The flag tables are process-global: 256-byte lookups for S/Z/parity and
the INC/DEC results, plus two 128 KiB tables that settle every flag of an
8-bit add or subtract, indexed by (carryIn<<16)|(A<<8)|result. They are
built once at program start and never mutated, so they are safe to share
between any number of CPU instances and host threads.

The cycle tables are per-prefix T-state costs: ccOp for the main page,
ccCB/ccED for those pages, ccXY/ccXYCB for the DD/FD forms, and ccEx for
the taken-branch/repeat penalty added on top of the base cost.
*/

package cpu

const (
	zfC  = 0x01
	zfN  = 0x02
	zfPV = 0x04
	zfX  = 0x08
	zfH  = 0x10
	zfY  = 0x20
	zfZ  = 0x40
	zfS  = 0x80
)

var (
	szTable      [256]uint8
	szpTable     [256]uint8
	szBitTable   [256]uint8
	szhvIncTable [256]uint8
	szhvDecTable [256]uint8
	szhvcAdd     [2 * 256 * 256]uint8
	szhvcSub     [2 * 256 * 256]uint8
)

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		f := v & (zfS | zfY | zfX)
		if v == 0 {
			f |= zfZ
		}
		szTable[i] = f

		p := f
		if parityEven(v) {
			p |= zfPV
		}
		szpTable[i] = p

		b := v & (zfS | zfY | zfX)
		if v == 0 {
			b = zfZ | zfPV
		}
		szBitTable[i] = b

		inc := v & (zfS | zfY | zfX)
		if v == 0 {
			inc |= zfZ
		}
		if v == 0x80 {
			inc |= zfPV
		}
		if v&0x0F == 0 {
			inc |= zfH
		}
		szhvIncTable[i] = inc

		dec := zfN | v&(zfS|zfY|zfX)
		if v == 0 {
			dec |= zfZ
		}
		if v == 0x7F {
			dec |= zfPV
		}
		if v&0x0F == 0x0F {
			dec |= zfH
		}
		szhvDecTable[i] = dec
	}

	for carry := 0; carry < 2; carry++ {
		for a := 0; a < 256; a++ {
			for res := 0; res < 256; res++ {
				idx := carry<<16 | a<<8 | res

				// ADD/ADC: the operand is implied by A, carry-in and
				// the result byte.
				b := (res - a - carry) & 0xFF
				f := uint8(res) & (zfS | zfY | zfX)
				if res == 0 {
					f |= zfZ
				}
				if (a&0x0F)+(b&0x0F)+carry > 0x0F {
					f |= zfH
				}
				if a+b+carry > 0xFF {
					f |= zfC
				}
				if (^uint8(a^b))&uint8(a^res)&0x80 != 0 {
					f |= zfPV
				}
				szhvcAdd[idx] = f

				// SUB/SBC/CP.
				b = (a - res - carry) & 0xFF
				f = zfN | uint8(res)&(zfS|zfY|zfX)
				if res == 0 {
					f |= zfZ
				}
				if (a&0x0F)-(b&0x0F)-carry < 0 {
					f |= zfH
				}
				if a-b-carry < 0 {
					f |= zfC
				}
				if uint8(a^b)&uint8(a^res)&0x80 != 0 {
					f |= zfPV
				}
				szhvcSub[idx] = f
			}
		}
	}

	buildXYCycleTable()
}

func parityEven(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// ccOpDefault is the main-page base cost. Prefix bytes (CB/DD/ED/FD)
// carry 0 here; their pages charge the full cost themselves.
var ccOpDefault = [256]uint8{
	4, 10, 7, 6, 4, 4, 7, 4, 4, 11, 7, 6, 4, 4, 7, 4,
	8, 10, 7, 6, 4, 4, 7, 4, 12, 11, 7, 6, 4, 4, 7, 4,
	7, 10, 16, 6, 4, 4, 7, 4, 7, 11, 16, 6, 4, 4, 7, 4,
	7, 10, 13, 6, 11, 11, 10, 4, 7, 11, 13, 6, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	7, 7, 7, 7, 7, 7, 4, 7, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 10, 11, 7, 11, 5, 10, 10, 0, 10, 17, 7, 11,
	5, 10, 10, 11, 10, 11, 7, 11, 5, 4, 10, 11, 10, 0, 7, 11,
	5, 10, 10, 19, 10, 11, 7, 11, 5, 4, 10, 4, 10, 0, 7, 11,
	5, 10, 10, 4, 10, 11, 7, 11, 5, 6, 10, 4, 10, 0, 7, 11,
}

// ccExDefault is the taken-branch / repeat penalty, keyed by the opcode
// on its own page: DJNZ and JR cc +5, RET cc +6, CALL cc +7, and the
// ED-page block repeats +5.
var ccExDefault = [256]uint8{
	0x10: 5,
	0x20: 5, 0x28: 5, 0x30: 5, 0x38: 5,
	0xC0: 6, 0xC8: 6, 0xD0: 6, 0xD8: 6, 0xE0: 6, 0xE8: 6, 0xF0: 6, 0xF8: 6,
	0xC4: 7, 0xCC: 7, 0xD4: 7, 0xDC: 7, 0xE4: 7, 0xEC: 7, 0xF4: 7, 0xFC: 7,
	0xB0: 5, 0xB1: 5, 0xB2: 5, 0xB3: 5, 0xB8: 5, 0xB9: 5, 0xBA: 5, 0xBB: 5,
}

var ccCBDefault = buildCBCycleTable()

func buildCBCycleTable() [256]uint8 {
	var t [256]uint8
	for i := 0; i < 256; i++ {
		switch {
		case i&7 != 6:
			t[i] = 8
		case i >= 0x40 && i <= 0x7F: // BIT n,(HL)
			t[i] = 12
		default:
			t[i] = 15
		}
	}
	return t
}

var ccEDDefault = buildEDCycleTable()

func buildEDCycleTable() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = 8
	}
	for i := 0x40; i <= 0x7F; i++ {
		switch i & 7 {
		case 0, 1: // IN r,(C) / OUT (C),r
			t[i] = 12
		case 2: // SBC/ADC HL,rr
			t[i] = 15
		case 3: // LD (nn),rr / LD rr,(nn)
			t[i] = 20
		case 7:
			switch i {
			case 0x47, 0x4F, 0x57, 0x5F: // LD I,A / LD R,A / LD A,I / LD A,R
				t[i] = 9
			case 0x67, 0x6F: // RRD / RLD
				t[i] = 18
			}
		}
	}
	t[0x45], t[0x4D] = 14, 14 // RETN / RETI
	t[0x55], t[0x5D] = 14, 14
	t[0x65], t[0x6D] = 14, 14
	t[0x75], t[0x7D] = 14, 14
	for i := 0xA0; i <= 0xBB; i++ {
		if i&7 <= 3 {
			t[i] = 16
		}
	}
	return t
}

// ccXYDefault starts from the main page plus the 4-cycle prefix fetch;
// the forms that address (IX+d) pay for the displacement fetch and the
// address add on top.
var ccXYDefault [256]uint8

var ccXYCBDefault = buildXYCBCycleTable()

func buildXYCycleTable() {
	for i := 0; i < 256; i++ {
		ccXYDefault[i] = ccOpDefault[i] + 4
	}
	for _, op := range []int{0x46, 0x4E, 0x56, 0x5E, 0x66, 0x6E, 0x7E,
		0x86, 0x8E, 0x96, 0x9E, 0xA6, 0xAE, 0xB6, 0xBE} {
		ccXYDefault[op] = 19
	}
	for op := 0x70; op <= 0x77; op++ {
		if op != 0x76 {
			ccXYDefault[op] = 19
		}
	}
	ccXYDefault[0x34] = 23
	ccXYDefault[0x35] = 23
	ccXYDefault[0x36] = 19
	ccXYDefault[0xCB] = 0 // DD CB chains to its own page
	ccXYDefault[0xDD] = 0
	ccXYDefault[0xFD] = 0
	ccXYDefault[0xED] = 0
}

func buildXYCBCycleTable() [256]uint8 {
	var t [256]uint8
	for i := 0; i < 256; i++ {
		if i >= 0x40 && i <= 0x7F {
			t[i] = 20
		} else {
			t[i] = 23
		}
	}
	return t
}

// m68k_tables.go - per-instance cycle tables

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
Three cycle tables are held per CPU instance: a 65536-entry per-opcode
base-cycle table, a 256-entry per-exception-vector table, and a 64-entry
effective-address-index table for memory-indirect forms. All three are
pre-multiplied by the instance's clock divider once, so dispatch adds
table entries without a per-instruction multiply.

The per-opcode table is populated lazily: the first time an opcode is
decoded its base cost is cached here, already scaled. Operand-dependent
costs (EA calculation, taken-branch deltas, memory-indirect extension
penalties) are added separately by the handlers.
*/

package cpu

func (c *CPU68k) buildCycleTables() {
	c.cycInstruction = make([]uint8, 65536)
	c.cycException = make([]uint16, 256)
	for v := 0; v < 256; v++ {
		c.cycException[v] = defaultExceptionCycles(uint16(v)) * uint16(c.clockDivider)
	}
	c.eaIdxCycle = buildEAIndexCycleTable()
}

// defaultExceptionCycles returns the cycle cost charged when vector v's
// stack frame is built, before the clock divider is applied. Vectors
// raised from inside instruction dispatch are net of the 4-cycle base
// already charged for the opcode word. Figures are 68000/68010 and every
// variant is charged the same ones; for the 030/040/ColdFire they are a
// lower bound. This stays a runtime table rather than generated code so
// the figures can be corrected as data.
func defaultExceptionCycles(v uint16) uint16 {
	switch {
	case v == VecResetSSP || v == VecResetPC:
		return 40
	case v == VecBusError || v == VecAddressError:
		return 50
	case v == VecIllegal:
		return 30
	case v == VecZeroDivide:
		return 34
	case v == VecCHK:
		return 36
	case v == VecTrapV:
		return 30
	case v == VecPrivilege:
		return 30
	case v == VecTrace:
		return 34
	case v == VecLineA || v == VecLineF:
		return 30
	case v == VecFormatError:
		return 30
	case v == VecSpurious:
		return 34
	case v >= VecAutovector1 && v <= VecAutovector7:
		return 44
	case v >= VecTrapBase && v < VecTrapBase+16:
		return 30
	case v == VecUninitializedInt:
		return 44
	default:
		return 34
	}
}

// cyclesFor looks up (and lazily populates) the base cost for opcode,
// already scaled by the clock divider.
func (c *CPU68k) cyclesFor(opcode uint16, base uint32) uint32 {
	if c.cycInstruction[opcode] == 0 {
		scaled := base * c.clockDivider
		if scaled > 255 {
			scaled = 255
		}
		c.cycInstruction[opcode] = uint8(scaled)
	}
	return uint32(c.cycInstruction[opcode])
}

// buildEAIndexCycleTable returns the 64-entry extension-word cycle
// penalty table for memory-indirect addressing, keyed by
// (scale<<4)|(bdSize<<2)|odSize. Costs scale with the number of
// extension words fetched; the exact silicon figures stay correctable as
// data.
func buildEAIndexCycleTable() [64]uint8 {
	var t [64]uint8
	for scale := 0; scale < 4; scale++ {
		for bd := 0; bd < 4; bd++ {
			for od := 0; od < 4; od++ {
				idx := (scale << 4) | (bd << 2) | od
				cost := 4
				if bd == 2 {
					cost += 4
				} else if bd == 3 {
					cost += 8
				}
				if od == 2 {
					cost += 4
				} else if od == 3 {
					cost += 8
				}
				t[idx] = uint8(cost)
			}
		}
	}
	return t
}

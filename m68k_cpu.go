// m68k_cpu.go - run loop and top-level lifecycle

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// Step decodes and executes exactly one instruction, servicing any
// pending interrupt first, and returns the number of cycles it charged.
func (c *CPU68k) Step() uint64 {
	before := c.CurrentCycle

	c.serviceInterrupts()

	if c.Stopped != 0 {
		c.CurrentCycle += uint64(c.clockDivider)
		return c.CurrentCycle - before
	}

	// The trace bit is sampled once, before execution, so an instruction
	// that rewrites SR cannot un-trace itself mid-flight. Reset
	// processing suppresses trace via the run-mode state machine.
	traced := c.SR&SRFlagT1 != 0 && c.RunMode == RunModeNormal

	c.PPC = c.PC
	opcode := c.Fetch16()
	c.IR = opcode
	c.dispatch(opcode)

	if traced {
		c.raiseException(VecTrace)
	}

	return c.CurrentCycle - before
}

// RunTo advances the CPU until CurrentCycle >= target. An instruction in
// flight always runs to completion, so CurrentCycle may overshoot target
// by up to one instruction's cost; the next call starts from the
// overshoot. A stopped CPU with no pending interrupt idles straight to
// the deadline.
func (c *CPU68k) RunTo(target uint64) {
	c.TargetCycle = target
	for c.CurrentCycle < target {
		if c.Stopped != 0 && c.IntPending == 0 {
			c.CurrentCycle = target
			return
		}
		c.Step()
	}
}

// AdjustCycles rebases the cycle counters after the host subtracts a
// window to keep its clock from overflowing. Values already past zero
// clamp to zero.
func (c *CPU68k) AdjustCycles(deduction uint64) {
	if c.CurrentCycle > deduction {
		c.CurrentCycle -= deduction
	} else {
		c.CurrentCycle = 0
	}
	if c.TargetCycle > deduction {
		c.TargetCycle -= deduction
	} else {
		c.TargetCycle = 0
	}
}

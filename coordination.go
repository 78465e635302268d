// coordination.go - the wiring between the main 68k and the sub Z80:
// bus-request handshake, reset propagation, shared-RAM windowing, and
// interrupt pulse scheduling

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
The two CPUs never call each other. The 68k touches the Z80 only through
its control lines (busreq, reset) and through memory chunks that alias
the Z80's RAM; the Z80 reaches back only through shared memory. The host
scheduler owns time: it advances whichever CPU is furthest behind, so
ordering between them exists only at RunTo boundaries.
*/

package cpu

// System couples a main 68k with a sub Z80 the way the Genesis wires
// them: the 68k drives the Z80's busreq and reset lines through
// memory-mapped registers, and the VDP (external to this core) feeds
// interrupt levels to the 68k and pulse windows to the Z80.
type System struct {
	Main *CPU68k
	Sub  *Z80
}

// NewSystem wires the pair together: the 68k RESET instruction pulses
// the Z80 reset line at the 68k's current cycle.
func NewSystem(main *CPU68k, sub *Z80) *System {
	s := &System{Main: main, Sub: sub}
	main.ResetPeripherals = func() {
		sub.AssertReset(main.CurrentCycle)
		sub.ClearReset(main.CurrentCycle)
	}
	return s
}

// RequestZ80Bus asserts busreq on behalf of the 68k, catching the Z80 up
// to the 68k's clock first so the grant lands at a defined instant.
func (s *System) RequestZ80Bus() {
	s.Sub.AssertBusreq(s.Main.CurrentCycle)
	// The grant is only visible after the Z80 reaches the boundary of
	// its in-flight instruction.
	s.Sub.RunTo(s.Main.CurrentCycle)
}

// ReleaseZ80Bus releases busreq; the Z80 resumes on its next slice.
func (s *System) ReleaseZ80Bus() {
	s.Sub.ClearBusreq(s.Main.CurrentCycle)
}

// Z80BusGranted reports whether the 68k currently owns the Z80 bus and
// may safely touch the shared regions.
func (s *System) Z80BusGranted() bool { return s.Sub.Busack() }

// ResetZ80 holds or releases the Z80 reset line from the 68k's clock.
func (s *System) ResetZ80(hold bool) {
	if hold {
		s.Sub.AssertReset(s.Main.CurrentCycle)
		return
	}
	s.Sub.ClearReset(s.Main.CurrentCycle)
}

// RunTo drives both CPUs to target, always advancing the one that is
// furthest behind so neither runs ahead of a write the other could
// observe by more than one instruction.
func (s *System) RunTo(target uint64) {
	for s.Main.CurrentCycle < target || s.Sub.CurrentCycle < target {
		if s.Main.CurrentCycle <= s.Sub.CurrentCycle {
			next := s.Sub.CurrentCycle
			if next > target {
				next = target
			}
			if next <= s.Main.CurrentCycle {
				next = target
			}
			s.Main.RunTo(next)
			continue
		}
		next := s.Main.CurrentCycle
		if next > target {
			next = target
		}
		s.Sub.RunTo(next)
	}
}

// AdjustCycles rebases both CPUs after the host shrinks its clock.
func (s *System) AdjustCycles(deduction uint64) {
	s.Main.AdjustCycles(deduction)
	s.Sub.AdjustCycles(deduction)
}

// SharedRAMWindow builds the pair of chunks that expose one backing
// buffer to both CPUs: the Z80 sees it as plain RAM at its own address,
// while the 68k sees it through a byte-laned window (the Genesis maps
// Z80 RAM into the odd bytes of a 16-bit region). The caller installs
// each chunk in the respective CPU's map.
func SharedRAMWindow(buf []byte, z80Base uint16, m68kBase uint32) (z80Chunk, m68kChunk *Chunk) {
	z80Chunk = &Chunk{
		Start:  uint32(z80Base),
		End:    uint32(z80Base) + uint32(len(buf)) - 1,
		Flags:  FlagRead | FlagWrite | FlagCode,
		Buffer: buf,
	}
	m68kChunk = &Chunk{
		Start: m68kBase,
		End:   m68kBase + uint32(len(buf))*2 - 1,
		Flags: FlagRead | FlagWrite | FlagOnlyOdd,
		Read8: func(addr uint32, _ any) uint8 {
			return buf[(addr-m68kBase)>>1]
		},
		Write8: func(addr uint32, value uint8, ctx any) any {
			buf[(addr-m68kBase)>>1] = value
			return ctx
		},
	}
	return z80Chunk, m68kChunk
}

// SchedulePulse hands the Z80 a fixed interrupt window; the Genesis VDP
// opens one each scanline around the vertical interrupt.
func (s *System) SchedulePulse(start, end uint64) {
	s.Sub.IntPulseStart = start
	s.Sub.IntPulseEnd = end
}

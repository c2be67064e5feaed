package debug

import (
	"github.com/valerio/go-nes/nes/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// CreateDisassembly decodes maxLines instructions around pc, a third of them
// before it.
func CreateDisassembly(reader MemoryReader, pc uint16, maxLines int) []DisasmLine {
	if reader == nil || maxLines <= 0 {
		return nil
	}

	before := maxLines / 3
	after := maxLines - before - 1

	decoded := disasm.DisassembleAround(pc, before, after, reader)
	lines := make([]DisasmLine, 0, len(decoded))
	for _, line := range decoded {
		current := line.Address == pc
		lines = append(lines, DisasmLine{
			Address:     line.Address,
			Instruction: disasm.FormatDisassemblyLine(line, current),
			IsCurrent:   current,
		})
	}
	return lines
}

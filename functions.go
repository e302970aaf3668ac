package main

import (
	"fmt"
)

// Function table construction. A PTB stream is a concatenation of function
// definitions: each starts with FN id_hi id_lo and runs until the next FN or
// the end of the stream. Labels are resolved here, once, so the engine can
// jump without scanning.

const (
	numFunctions = 0x10000
	numLabels    = 0x100
	numRegisters = 0x100
)

// FunctionInfo holds one function's code body and its resolved label table.
// Label l maps to the offset of the byte right after the LBL instruction;
// unset entries stay at -1.
type FunctionInfo struct {
	code   []byte
	labels [numLabels]int
}

func newFunctionInfo(code []byte) (*FunctionInfo, error) {
	fi := &FunctionInfo{code: code}
	for i := range fi.labels {
		fi.labels[i] = -1
	}
	for offset := 0; offset < len(code); {
		op := code[offset]
		size := instructionSize(op)
		if size == 0 {
			return nil, fmt.Errorf("invalid instruction %d", op)
		}
		if offset+size > len(code) {
			return nil, fmt.Errorf("truncated %s instruction at offset %d", opcodeName(op), offset)
		}
		if op == LBL {
			fi.labels[code[offset+1]] = offset + 2
		}
		offset += size
	}
	return fi, nil
}

// buildFunctionTable parses the byte stream into the 65536-entry function
// table. Every top-level byte must be the start of an FN header; a later
// definition of the same id replaces the earlier one.
func buildFunctionTable(stream []byte) ([]*FunctionInfo, error) {
	table := make([]*FunctionInfo, numFunctions)
	if len(stream) == 0 {
		return nil, fmt.Errorf("empty bytecode stream")
	}
	pos := 0
	for pos < len(stream) {
		if stream[pos] != FN {
			return nil, fmt.Errorf("invalid instruction %d", stream[pos])
		}
		if pos+instructionSizes[FN] > len(stream) {
			return nil, fmt.Errorf("truncated FN header at offset %d", pos)
		}
		id := int(stream[pos+1])<<8 | int(stream[pos+2])
		start := pos + instructionSizes[FN]

		// Consume whole instructions until the next FN or end of stream.
		end := start
		for end < len(stream) && stream[end] != FN {
			op := stream[end]
			size := instructionSize(op)
			if size == 0 {
				return nil, fmt.Errorf("invalid instruction %d", op)
			}
			if end+size > len(stream) {
				return nil, fmt.Errorf("truncated %s instruction at offset %d", opcodeName(op), end)
			}
			end += size
		}

		code := make([]byte, end-start)
		copy(code, stream[start:end])
		fi, err := newFunctionInfo(code)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", id, err)
		}
		table[id] = fi
		pos = end
	}
	return table, nil
}

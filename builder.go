package main

import (
	"bytes"
)

// ProgramBuilder assembles PTB byte streams, one method per instruction.
// It is how the demo program and the tests produce bytecode without an
// external assembler.
type ProgramBuilder struct {
	buf bytes.Buffer
}

// NewProgramBuilder returns an empty builder.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{}
}

// Bytes returns the assembled stream.
func (pb *ProgramBuilder) Bytes() []byte {
	return pb.buf.Bytes()
}

// Len returns the current stream length in bytes.
func (pb *ProgramBuilder) Len() int {
	return pb.buf.Len()
}

func (pb *ProgramBuilder) emit(bs ...byte) *ProgramBuilder {
	pb.buf.Write(bs)
	return pb
}

// Fn starts the definition of the function with the given 16-bit id.
func (pb *ProgramBuilder) Fn(id uint16) *ProgramBuilder {
	return pb.emit(FN, byte(id>>8), byte(id))
}

// Cal emits a call to the function with the given 16-bit id.
func (pb *ProgramBuilder) Cal(id uint16) *ProgramBuilder {
	return pb.emit(CAL, byte(id>>8), byte(id))
}

// Rtn emits a return.
func (pb *ProgramBuilder) Rtn() *ProgramBuilder {
	return pb.emit(RTN)
}

// Go2 emits a conditional jump to the given label.
func (pb *ProgramBuilder) Go2(label byte) *ProgramBuilder {
	return pb.emit(GO2, label)
}

// Lbl emits a label definition.
func (pb *ProgramBuilder) Lbl(label byte) *ProgramBuilder {
	return pb.emit(LBL, label)
}

// Mrl emits a 32-bit immediate load into register (t, n).
func (pb *ProgramBuilder) Mrl(t, n byte, v uint32) *ProgramBuilder {
	return pb.emit(MRL, t, n, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Mrr emits a register-to-register move.
func (pb *ProgramBuilder) Mrr(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.emit(MRR, t, n, t2, n2)
}

// Mrm emits a size-byte big-endian load from the heap address in (t2, n2)
// into (t, n).
func (pb *ProgramBuilder) Mrm(t, n, t2, n2, size byte) *ProgramBuilder {
	return pb.emit(MRM, t, n, t2, n2, size)
}

// Mmr emits a size-byte big-endian store of (t2, n2) to the heap address in
// (t, n).
func (pb *ProgramBuilder) Mmr(t, n, t2, n2, size byte) *ProgramBuilder {
	return pb.emit(MMR, t, n, t2, n2, size)
}

// Mlc emits a heap allocation of (t2, n2) bytes into (t, n).
func (pb *ProgramBuilder) Mlc(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.emit(MLC, t, n, t2, n2)
}

// Fre emits a heap free of the address in (t, n).
func (pb *ProgramBuilder) Fre(t, n byte) *ProgramBuilder {
	return pb.emit(FRE, t, n)
}

// Wr emits a write of register (t, n) with the given write type.
func (pb *ProgramBuilder) Wr(writeType, t, n byte) *ProgramBuilder {
	return pb.emit(WR, writeType, t, n)
}

// Wrl emits a newline write.
func (pb *ProgramBuilder) Wrl() *ProgramBuilder {
	return pb.emit(WRL)
}

// Op emits a binary register instruction such as ADD or XOR.
func (pb *ProgramBuilder) Op(opcode, t, n, t2, n2 byte) *ProgramBuilder {
	return pb.emit(opcode, t, n, t2, n2)
}

// Add emits an unsigned addition.
func (pb *ProgramBuilder) Add(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.Op(ADD, t, n, t2, n2)
}

// Sub emits an unsigned subtraction.
func (pb *ProgramBuilder) Sub(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.Op(SUB, t, n, t2, n2)
}

// Sml emits a signed multiplication.
func (pb *ProgramBuilder) Sml(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.Op(SML, t, n, t2, n2)
}

// Eq emits an equality comparison into the flag register.
func (pb *ProgramBuilder) Eq(t, n, t2, n2 byte) *ProgramBuilder {
	return pb.Op(EQ, t, n, t2, n2)
}

// Lnt emits a logical not of the flag register.
func (pb *ProgramBuilder) Lnt() *ProgramBuilder {
	return pb.emit(LNT)
}

// Bnt emits a bitwise not of register (t, n).
func (pb *ProgramBuilder) Bnt(t, n byte) *ProgramBuilder {
	return pb.emit(BNT, t, n)
}

// Min emits a two's-complement negation of register (t, n).
func (pb *ProgramBuilder) Min(t, n byte) *ProgramBuilder {
	return pb.emit(MIN, t, n)
}

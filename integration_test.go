package main

import (
	"testing"
)

// TestHelloPrint builds "Hi!\n" on the heap byte by byte and prints it as a
// NUL-terminated string.
func TestHelloPrint(t *testing.T) {
	pb := NewProgramBuilder()
	pb.Fn(0).
		Mrl(RegLocal, 1, 5).
		Mlc(RegLocal, 2, RegLocal, 1). // L2 = base
		Mrr(RegLocal, 3, RegLocal, 2). // L3 = walking pointer
		Mrl(RegLocal, 5, 1)
	for _, ch := range []byte("Hi!\n\x00") {
		pb.Mrl(RegLocal, 4, uint32(ch)).
			Mmr(RegLocal, 3, RegLocal, 4, 1).
			Add(RegLocal, 3, RegLocal, 5)
	}
	pb.Wr(WriteString, RegLocal, 2).
		Fre(RegLocal, 2).
		Rtn()
	if got := runProgram(t, pb.Bytes()); got != "Hi!\n" {
		t.Fatalf("got %q, want %q", got, "Hi!\n")
	}
}

// TestFactorialFive computes 5! through the recursive global-register
// protocol of the bundled sample.
func TestFactorialFive(t *testing.T) {
	pb := NewProgramBuilder()
	pb.Fn(0).
		Mrl(RegGlobal, 1, 5).
		Cal(1).
		Wr(WriteSigned, RegGlobal, 0).Wrl().
		Rtn()
	pb.Fn(1).
		Mrl(RegLocal, 1, 1).
		Mrl(RegGlobal, 0, 1).
		Eq(RegGlobal, 1, RegLocal, 1).
		Lnt().
		Go2(0).
		Rtn().
		Lbl(0).
		Min(RegGlobal, 0).
		Add(RegGlobal, 0, RegGlobal, 1).
		Mrr(RegLocal, 1, RegGlobal, 1).
		Mrr(RegGlobal, 1, RegGlobal, 0).
		Cal(1).
		Sml(RegGlobal, 0, RegLocal, 1).
		Rtn()
	if got := runProgram(t, pb.Bytes()); got != "120\n" {
		t.Fatalf("got %q, want %q", got, "120\n")
	}
}

// TestOOMSignal requests the whole arena in one allocation; MLC must yield 0
// and the program must be able to branch on it.
func TestOOMSignal(t *testing.T) {
	pb := NewProgramBuilder()
	pb.Fn(0).
		Mrl(RegLocal, 1, 0x1000000).
		Mlc(RegLocal, 2, RegLocal, 1).
		Mrl(RegLocal, 3, 0).
		Eq(RegLocal, 2, RegLocal, 3). // flag = (allocation == 0)
		Go2(7).
		Wr(WriteUnsigned, RegLocal, 2). // not reached: allocation succeeded
		Rtn().
		Lbl(7).
		Mrl(RegLocal, 4, 'X'). // recovery branch
		Wr(WriteChar, RegLocal, 4).
		Rtn()
	if got := runProgramWithHeap(t, DefaultHeapSize, pb.Bytes()); got != "X" {
		t.Fatalf("got %q, want %q", got, "X")
	}
}

// TestHeapReuseAfterFree frees an allocation and allocates the same size
// again; with a heap this small only the freed region can satisfy the second
// request, so both allocations print the same offset.
func TestHeapReuseAfterFree(t *testing.T) {
	pb := NewProgramBuilder()
	pb.Fn(0).
		Mrl(RegLocal, 1, 12*HeapWordSize).
		Mlc(RegLocal, 2, RegLocal, 1).
		Wr(WriteUnsigned, RegLocal, 2).Wrl().
		Fre(RegLocal, 2).
		Mlc(RegLocal, 3, RegLocal, 1).
		Wr(WriteUnsigned, RegLocal, 3).Wrl().
		Rtn()
	want := "8\n8\n"
	if got := runProgramWithHeap(t, 16*HeapWordSize, pb.Bytes()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestDemoProgram runs the bundled sample end to end.
func TestDemoProgram(t *testing.T) {
	if got := runProgram(t, demoProgram()); got != "Hi!\n3628800\n" {
		t.Fatalf("got %q, want %q", got, "Hi!\n3628800\n")
	}
}

// TestWriteFormats covers the four WR renderings in one program.
func TestWriteFormats(t *testing.T) {
	pb := NewProgramBuilder()
	pb.Fn(0).
		Mrl(RegLocal, 1, 65).
		Wr(WriteChar, RegLocal, 1). // "A"
		Mrl(RegLocal, 1, 7).
		Min(RegLocal, 1).
		Wr(WriteSigned, RegLocal, 1).   // "-7"
		Wr(WriteUnsigned, RegLocal, 1). // two's-complement bits, unsigned view
		Wrl().
		Rtn()
	want := "A-718446744073709551609\n"
	if got := runProgram(t, pb.Bytes()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

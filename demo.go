package main

import (
	"os"
)

// demoProgram assembles the bundled sample: function 1 builds "Hi!" on the
// heap one byte at a time and prints it, function 2 computes the factorial of
// G1 into G0 by recursing through the globals, and function 0 drives both.
// Running it prints "Hi!" and 3628800 on separate lines.
func demoProgram() []byte {
	pb := NewProgramBuilder()

	pb.Fn(0).
		Mrl(RegGlobal, 1, 10).
		Cal(1).
		Cal(2).
		Wr(WriteSigned, RegGlobal, 0).Wrl().
		Rtn()

	// Store 'H', 'i', '!' and a terminating NUL through a walking pointer
	// in L3, then print the string at the allocation base in L2.
	pb.Fn(1).
		Mrl(RegLocal, 1, 20).
		Mlc(RegLocal, 2, RegLocal, 1).
		Mrr(RegLocal, 3, RegLocal, 2).
		Mrl(RegLocal, 5, 1).
		Mrl(RegLocal, 4, 'H').
		Mmr(RegLocal, 3, RegLocal, 4, 1).
		Add(RegLocal, 3, RegLocal, 5).
		Mrl(RegLocal, 4, 'i').
		Mmr(RegLocal, 3, RegLocal, 4, 1).
		Add(RegLocal, 3, RegLocal, 5).
		Mrl(RegLocal, 4, '!').
		Mmr(RegLocal, 3, RegLocal, 4, 1).
		Add(RegLocal, 3, RegLocal, 5).
		Mrl(RegLocal, 4, 0).
		Mmr(RegLocal, 3, RegLocal, 4, 1).
		Wr(WriteString, RegLocal, 2).Wrl().
		Fre(RegLocal, 2).
		Rtn()

	// G0 = G1 factorial. On the way down G0 holds G1-1 and G1 shrinks
	// toward 1; the multiplications happen as the calls unwind.
	pb.Fn(2).
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
		Cal(2).
		Sml(RegGlobal, 0, RegLocal, 1).
		Rtn()

	return pb.Bytes()
}

// writeDemoFile writes the sample program to path so it can be run back with
// ptvm.
func writeDemoFile(path string) error {
	return os.WriteFile(path, demoProgram(), 0644)
}

package main

// PTB instruction set. Opcode values double as indices into the
// instructionSizes table; each entry is the total instruction length in
// bytes, opcode byte included.

const (
	FN = iota
	CAL
	RTN
	GO2
	LBL
	MRL
	MRR
	MRM
	MMR
	MLC
	FRE
	WR
	WRL
	ADD
	SUB
	SML
	UML
	SDV
	UDV
	SMD
	UMD
	LSH
	RSH
	AND
	OR
	XOR
	EQ
	SLT
	ULT
	SGT
	UGT
	LNT
	BNT
	MIN
	numOpcodes
)

// Write types for the WR instruction
const (
	WriteSigned = iota
	WriteUnsigned
	WriteChar
	WriteString
)

// Register bank tags
const (
	RegLocal = iota
	RegGlobal
)

// instructionSizes holds the byte length of each instruction, including the
// opcode byte itself.
var instructionSizes = [numOpcodes]int{
	FN:  3,
	CAL: 3,
	RTN: 1,
	GO2: 2,
	LBL: 2,
	MRL: 7,
	MRR: 5,
	MRM: 6,
	MMR: 6,
	MLC: 5,
	FRE: 3,
	WR:  4,
	WRL: 1,
	ADD: 5,
	SUB: 5,
	SML: 5,
	UML: 5,
	SDV: 5,
	UDV: 5,
	SMD: 5,
	UMD: 5,
	LSH: 5,
	RSH: 5,
	AND: 5,
	OR:  5,
	XOR: 5,
	EQ:  5,
	SLT: 5,
	ULT: 5,
	SGT: 5,
	UGT: 5,
	LNT: 1,
	BNT: 3,
	MIN: 3,
}

var opcodeNames = [numOpcodes]string{
	FN:  "FN",
	CAL: "CAL",
	RTN: "RTN",
	GO2: "GO2",
	LBL: "LBL",
	MRL: "MRL",
	MRR: "MRR",
	MRM: "MRM",
	MMR: "MMR",
	MLC: "MLC",
	FRE: "FRE",
	WR:  "WR",
	WRL: "WRL",
	ADD: "ADD",
	SUB: "SUB",
	SML: "SML",
	UML: "UML",
	SDV: "SDV",
	UDV: "UDV",
	SMD: "SMD",
	UMD: "UMD",
	LSH: "LSH",
	RSH: "RSH",
	AND: "AND",
	OR:  "OR",
	XOR: "XOR",
	EQ:  "EQ",
	SLT: "SLT",
	ULT: "ULT",
	SGT: "SGT",
	UGT: "UGT",
	LNT: "LNT",
	BNT: "BNT",
	MIN: "MIN",
}

// instructionSize returns the total byte length of the instruction with the
// given opcode, or 0 if the opcode is unknown.
func instructionSize(op byte) int {
	if int(op) >= numOpcodes {
		return 0
	}
	return instructionSizes[op]
}

// opcodeName returns a human-readable name for diagnostics.
func opcodeName(op byte) string {
	if int(op) >= numOpcodes {
		return "???"
	}
	return opcodeNames[op]
}

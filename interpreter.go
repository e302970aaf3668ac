package main

import (
	"fmt"
	"io"
)

// The execution engine. State is a current function plus a program counter
// into its code, a stack of call sites, a stack of local register frames, the
// global register bank and the virtual heap. Execution starts with a call to
// function 0 and ends when RTN finds the call-site stack empty.

// registerBank is one bank of 256 registers: the global bank or one function
// invocation's local frame. In a local frame, index 0 is the flag register:
// comparisons write it and GO2 reads it.
type registerBank [numRegisters]uint64

// callSite is what CAL saves and RTN restores: where to resume in which
// function. The label table travels with the function, so restoring the
// function restores the labels too.
type callSite struct {
	returnPC int
	function *FunctionInfo
}

// Interpreter executes a loaded PTB function table. All state is owned by the
// one Interpreter value; multiple interpreters do not share anything.
type Interpreter struct {
	globals   registerBank
	functions []*FunctionInfo
	heap      *VirtualHeap
	out       io.Writer

	current *FunctionInfo
	pc      int
	frames  []*registerBank
	calls   []callSite
}

// NewInterpreter creates an interpreter with an arena of heapSize bytes that
// writes program output to out.
func NewInterpreter(heapSize int, out io.Writer) *Interpreter {
	return &Interpreter{
		heap: NewVirtualHeap(heapSize),
		out:  out,
	}
}

// Load parses the PTB byte stream into the function table. It must be called
// once before Run.
func (in *Interpreter) Load(stream []byte) error {
	table, err := buildFunctionTable(stream)
	if err != nil {
		return err
	}
	in.functions = table
	return nil
}

func (in *Interpreter) locals() *registerBank {
	return in.frames[len(in.frames)-1]
}

// register resolves a register-type tag and index to the register itself.
func (in *Interpreter) register(t, n byte) (*uint64, error) {
	switch t {
	case RegLocal:
		return &in.locals()[n], nil
	case RegGlobal:
		return &in.globals[n], nil
	}
	return nil, fmt.Errorf("invalid register type %d", t)
}

// operands resolves the two register pairs of a binary instruction: a pointer
// to the destination register and the value of the source register.
func (in *Interpreter) operands(args []byte) (*uint64, uint64, error) {
	dst, err := in.register(args[0], args[1])
	if err != nil {
		return nil, 0, err
	}
	src, err := in.register(args[2], args[3])
	if err != nil {
		return nil, 0, err
	}
	return dst, *src, nil
}

// call pushes a fresh zeroed local frame and transfers control to the start
// of the given function. The call site is saved unless this is the bootstrap
// call, which has no caller to return to.
func (in *Interpreter) call(id, returnPC int) error {
	fn := in.functions[id]
	if fn == nil {
		return fmt.Errorf("call to undefined function %d", id)
	}
	if in.current != nil {
		in.calls = append(in.calls, callSite{returnPC: returnPC, function: in.current})
	}
	in.frames = append(in.frames, new(registerBank))
	in.current = fn
	in.pc = 0
	return nil
}

// write renders one value according to the WR write type.
func (in *Interpreter) write(wt byte, v uint64) error {
	switch wt {
	case WriteSigned:
		_, err := fmt.Fprintf(in.out, "%d", int64(v))
		return err
	case WriteUnsigned:
		_, err := fmt.Fprintf(in.out, "%d", v)
		return err
	case WriteChar:
		_, err := in.out.Write([]byte{byte(v)})
		return err
	case WriteString:
		s, err := in.heap.CString(v)
		if err != nil {
			return err
		}
		_, err = in.out.Write(s)
		return err
	}
	return fmt.Errorf("invalid write type %d", wt)
}

// Run executes the loaded program from function 0 until it returns at depth
// zero. A nil result means the program terminated cleanly; any error is a
// fatal interpreter fault.
func (in *Interpreter) Run() error {
	if in.functions == nil {
		return fmt.Errorf("no program loaded")
	}
	if in.functions[0] == nil {
		return fmt.Errorf("entry function 0 is not defined")
	}
	if err := in.call(0, 0); err != nil {
		return err
	}
	for {
		code := in.current.code
		if in.pc >= len(code) {
			return fmt.Errorf("execution ran past the end of the function body")
		}
		op := code[in.pc]
		size := instructionSize(op)
		if size == 0 || op == FN {
			return fmt.Errorf("invalid instruction %d", op)
		}
		if in.pc+size > len(code) {
			return fmt.Errorf("truncated %s instruction at offset %d", opcodeName(op), in.pc)
		}
		args := code[in.pc+1 : in.pc+size]

		switch op {
		case CAL:
			if err := in.call(int(args[0])<<8|int(args[1]), in.pc+size); err != nil {
				return err
			}
			continue
		case RTN:
			if len(in.calls) == 0 {
				return nil
			}
			site := in.calls[len(in.calls)-1]
			in.calls = in.calls[:len(in.calls)-1]
			in.frames = in.frames[:len(in.frames)-1]
			in.current = site.function
			in.pc = site.returnPC
			continue
		case GO2:
			if in.locals()[0] != 0 {
				target := in.current.labels[args[0]]
				if target < 0 {
					return fmt.Errorf("undefined label %d", args[0])
				}
				in.pc = target
				continue
			}
		case LBL:
			// Resolved at load time.
		case MRL:
			dst, err := in.register(args[0], args[1])
			if err != nil {
				return err
			}
			*dst = uint64(args[2])<<24 | uint64(args[3])<<16 | uint64(args[4])<<8 | uint64(args[5])
		case MRR:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst = src
		case MRM:
			dst, addr, err := in.operands(args)
			if err != nil {
				return err
			}
			v, err := in.heap.ReadBE(addr, int(args[4]))
			if err != nil {
				return err
			}
			*dst = v
		case MMR:
			addrReg, v, err := in.operands(args)
			if err != nil {
				return err
			}
			if err := in.heap.WriteBE(*addrReg, v, int(args[4])); err != nil {
				return err
			}
		case MLC:
			dst, n, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst = in.heap.Allocate(n)
		case FRE:
			addr, err := in.register(args[0], args[1])
			if err != nil {
				return err
			}
			if err := in.heap.Free(*addr); err != nil {
				return err
			}
		case WR:
			v, err := in.register(args[1], args[2])
			if err != nil {
				return err
			}
			if err := in.write(args[0], *v); err != nil {
				return err
			}
		case WRL:
			if _, err := in.out.Write([]byte{'\n'}); err != nil {
				return err
			}
		case ADD:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst += src
		case SUB:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst -= src
		case SML:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst = uint64(int64(*dst) * int64(src))
		case UML:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst *= src
		case SDV:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			if src == 0 {
				return fmt.Errorf("division by zero")
			}
			*dst = uint64(int64(*dst) / int64(src))
		case UDV:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			if src == 0 {
				return fmt.Errorf("division by zero")
			}
			*dst /= src
		case SMD:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			if src == 0 {
				return fmt.Errorf("division by zero")
			}
			*dst = uint64(int64(*dst) % int64(src))
		case UMD:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			if src == 0 {
				return fmt.Errorf("division by zero")
			}
			*dst %= src
		case LSH:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst <<= src
		case RSH:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst >>= src
		case AND:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst &= src
		case OR:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst |= src
		case XOR:
			dst, src, err := in.operands(args)
			if err != nil {
				return err
			}
			*dst ^= src
		case EQ:
			a, b, err := in.operands(args)
			if err != nil {
				return err
			}
			in.locals()[0] = boolWord(*a == b)
		case SLT:
			a, b, err := in.operands(args)
			if err != nil {
				return err
			}
			in.locals()[0] = boolWord(int64(*a) < int64(b))
		case ULT:
			a, b, err := in.operands(args)
			if err != nil {
				return err
			}
			in.locals()[0] = boolWord(*a < b)
		case SGT:
			a, b, err := in.operands(args)
			if err != nil {
				return err
			}
			in.locals()[0] = boolWord(int64(*a) > int64(b))
		case UGT:
			a, b, err := in.operands(args)
			if err != nil {
				return err
			}
			in.locals()[0] = boolWord(*a > b)
		case LNT:
			in.locals()[0] = boolWord(in.locals()[0] == 0)
		case BNT:
			dst, err := in.register(args[0], args[1])
			if err != nil {
				return err
			}
			*dst = ^*dst
		case MIN:
			dst, err := in.register(args[0], args[1])
			if err != nil {
				return err
			}
			*dst = -*dst
		default:
			return fmt.Errorf("invalid instruction %d", op)
		}
		in.pc += size
	}
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

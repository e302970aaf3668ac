package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyproto/env/v2"
)

// An interpreter for the PTB register/heap bytecode format

const versionString = "ptvm 1.0.0"

// VerboseMode enables load-time diagnostics on stderr
var VerboseMode bool

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ptvm [options] <program.ptb>")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ptvm: ")

	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var verbose = flag.Bool("v", false, "verbose mode (show load-time info on stderr)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show load-time info on stderr)")
	var demoFlag = flag.String("demo", "", "write the bundled sample program to the given path and exit")
	flag.Usage = usage
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		return
	}

	VerboseMode = *verbose || *verboseLong || env.Bool("PTVM_VERBOSE")

	if *demoFlag != "" {
		if err := writeDemoFile(*demoFlag); err != nil {
			log.Fatalln(err)
		}
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "wrote sample program to %s\n", *demoFlag)
		}
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	heapSize := env.Int("PTVM_HEAP_SIZE", DefaultHeapSize)
	if heapSize < HeapWordSize {
		log.Fatalf("PTVM_HEAP_SIZE must be at least %d bytes", HeapWordSize)
	}

	interp := NewInterpreter(heapSize, os.Stdout)
	if err := interp.Load(program); err != nil {
		log.Fatalln(err)
	}

	if VerboseMode {
		for id, fi := range interp.functions {
			if fi != nil {
				fmt.Fprintf(os.Stderr, "loaded function %d: %d bytes\n", id, len(fi.code))
			}
		}
		fmt.Fprintf(os.Stderr, "heap size: %d bytes\n", heapSize)
	}

	if err := interp.Run(); err != nil {
		log.Fatalln(err)
	}
}

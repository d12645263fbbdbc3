package pattern_test

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xsscx/xnuimagetools/pattern"
)

func ExampleGenerate() {
	p, err := pattern.Generate(16)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println(string(p))

	// Output:
	// Aa0aAa0bAa0cAa0d
}

func ExampleOffset() {
	p := pattern.GenerateOrExit(200)

	// Pretend these bytes were found in a register
	// after the target crashed.
	crashFragment := p[40:48]

	offset, err := pattern.Offset(crashFragment)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("%s is at offset %d\n", crashFragment, offset)

	// Output:
	// Aa0kAa0l is at offset 40
}

func ExampleCyclic_WriteToN() {
	cyclic := &pattern.Cyclic{}

	err := cyclic.WriteToN(os.Stdout, 16)
	if err != nil {
		log.Fatalln(err)
	}
	os.Stdout.WriteString("\n")
	err = cyclic.WriteToN(os.Stdout, 16)
	if err != nil {
		log.Fatalln(err)
	}
	os.Stdout.WriteString("\n")
	err = cyclic.WriteToN(os.Stdout, 16)
	if err != nil {
		log.Fatalln(err)
	}

	// Output:
	// Aa0aAa0bAa0cAa0d
	// Aa0eAa0fAa0gAa0h
	// Aa0iAa0jAa0kAa0l
}

func ExampleCyclic_WriteToN_write_pattern_to_logger() {
	logger := log.New(os.Stdout, "", 0)

	cyclic := &pattern.Cyclic{
		OptLogger: logger,
	}

	cyclic.WriteToNOrExit(io.Discard, 8)
	cyclic.WriteToNOrExit(io.Discard, 8)
	cyclic.WriteToNOrExit(io.Discard, 6)

	// Output:
	// pattern string 0: Aa0aAa0b
	// pattern string 1: Aa0cAa0d
	// pattern string 2: Aa0eAa
}

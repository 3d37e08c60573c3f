// Command gbcore loads a ROM file and runs it against the SM83 core
// until HALT stops it cleanly, or an unknown opcode or a faulting bus
// access aborts it. Exit status is 0 on a clean HALT, non-zero
// otherwise.
//
// Usage: gbcore <rom-path>
package main

import (
	"fmt"
	"log"
	"os"

	"gbcore/cpu"
	"gbcore/mem"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: gbcore <rom-path>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		log.Fatal(err)
	}
}

func run(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gbcore: reading rom: %w", err)
	}

	bus := mem.New()
	bus.LoadROM(program)

	c := cpu.New(bus)
	c.Reset()

	if err := c.Run(); err != nil {
		return fmt.Errorf("gbcore: halted: %w", err)
	}
	return nil
}

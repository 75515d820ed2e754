// Command cpurunner drives a Motherboard against a test ROM headlessly,
// watching its serial output for a pass/fail marker (the blargg test-ROM
// convention). It exercises the Motherboard's Tick, breakpoint, and
// serial APIs end to end rather than stepping a bare CPU loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pixelclock/dmgmb/internal/motherboard"
)

// cyclesPerChunk is one DMG frame in the cycle unit Motherboard.Tick
// counts (154 lines of 456 dots), the granularity at which this runner
// drains serial output and checks for a pass/fail marker.
const cyclesPerChunk = 70224

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM")
	frames := flag.Int("frames", 6000, "max frames to run before giving up")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s); 0 disables")
	breakAt := flag.String("break", "", "comma-separated hex PCs to add as extra breakpoints (bank 0), e.g. 0x0150,0x4000")
	profile := flag.Bool("profile", false, "enable per-opcode hit counting and print a summary on exit")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	mb, err := motherboard.New(motherboard.Config{
		GameROMPath: *romPath,
		BootROMPath: *bootPath,
		Profiling:   *profile,
	})
	if err != nil {
		log.Fatalf("construct motherboard: %v", err)
	}
	defer mb.Stop(false)

	for _, tok := range strings.Split(*breakAt, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 16)
		if err != nil {
			log.Fatalf("bad -break value %q: %v", tok, err)
		}
		mb.AddBreakpoint(0, uint16(v))
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)

	var serial strings.Builder
	for frame := 0; frame < *frames; frame++ {
		runChunk(mb, cyclesPerChunk)

		if s := mb.GetSerial(); s != "" {
			fmt.Print(s)
			serial.WriteString(s)
		}

		acc := serial.String()
		if *auto {
			if strings.Contains(strings.ToLower(acc), "passed") {
				fmt.Printf("\nDetected PASS in serial output after %d frames (%s).\n", frame+1, time.Since(start).Truncate(time.Millisecond))
				os.Exit(0)
			}
			if m := failRe.FindStringSubmatch(acc); m != nil {
				fmt.Printf("\nDetected %s in serial output after %d frames.\n", m[0], frame+1)
				os.Exit(1)
			}
		} else if *until != "" && strings.Contains(strings.ToLower(acc), strings.ToLower(*until)) {
			fmt.Printf("\nDetected %q in serial output after %d frames (%s).\n", *until, frame+1, time.Since(start).Truncate(time.Millisecond))
			return
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			os.Exit(2)
		}
	}

	fmt.Printf("\nDone: frames=%d elapsed=%s\n", *frames, time.Since(start).Truncate(time.Millisecond))
	if *profile {
		printHitrate(mb)
	}
}

// runChunk consumes budget cycles from mb, re-entering Tick whenever a
// breakpoint interrupts it early. It returns with part of the budget
// unused when a Tick call makes no progress, which happens when a
// breakpoint matches on the first instruction of that call.
func runChunk(mb *motherboard.Motherboard, budget int) {
	for budget > 0 {
		remaining := mb.Tick(budget)
		if remaining >= budget {
			return // no progress, e.g. a breakpoint hit on the first step
		}
		budget = remaining
	}
}

func printHitrate(mb *motherboard.Motherboard) {
	hits := mb.CPU().Hitrate()
	fmt.Println("\n--- opcode hitrate (top 16) ---")
	type pair struct {
		op  int
		cnt int
	}
	var pairs []pair
	for i, c := range hits {
		if c > 0 {
			pairs = append(pairs, pair{i, c})
		}
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].cnt > pairs[i].cnt {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}
	if len(pairs) > 16 {
		pairs = pairs[:16]
	}
	for _, p := range pairs {
		fmt.Printf("  %#04x: %d\n", p.op, p.cnt)
	}
}

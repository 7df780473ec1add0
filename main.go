// ════════════════════════════════════════════════════════════════════════════════════════════════
// Segmented Wheel Sieve - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: High-Performance Prime Generation Engine
// Component: Main Entry Point & Run Orchestration
//
// Description:
//   Phased orchestration with clean separation of concerns.
//   Parse → Plan → Production Sieving (GC disabled) → Report
//
// Architecture:
//   - Phase 0: Argument parsing and range planning
//   - Phase 1: Production sieving with GC disabled; one sieve instance per
//     worker over disjoint subranges, print mode streams segments through
//     the SPSC ring to a pinned consumer
//   - Phase 2: Cooldown, aggregation and report (human or JSON)
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"math/bits"
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"strconv"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/sugawarayuuta/sonnet"

	"main/constants"
	"main/control"
	"main/debug"
	"main/erat"
	"main/plan"
	"main/ring"
	"main/utils"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RUN CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

type runConfig struct {
	start, stop uint64
	sieveBytes  uint32
	threads     int
	print       bool // stream primes to stdout
	digest      bool // xxh64 bitmap fingerprint (single-threaded)
	json        bool // machine-readable summary
}

// report is the end-of-run summary. Marshaled with sonnet in -json mode.
type report struct {
	Start      uint64  `json:"start"`
	Stop       uint64  `json:"stop"`
	Count      uint64  `json:"count"`
	Threads    int     `json:"threads"`
	SieveBytes uint32  `json:"sieve_bytes"`
	Seconds    float64 `json:"seconds"`
	Digest     string  `json:"digest,omitempty"`
	Aborted    bool    `json:"aborted,omitempty"`
}

func usage() {
	utils.PrintWarning("usage: primesieve [-t N] [-s KiB] [-p] [-d] [-json] START STOP\n" +
		"  -t N     worker threads (default: all logical CPUs)\n" +
		"  -s KiB   segment sieve size in KiB (power of two, default 32)\n" +
		"  -p       print primes to stdout (single-threaded, pinned printer)\n" +
		"  -d       print the xxh64 fingerprint of the sieved bitmap (single-threaded)\n" +
		"  -json    emit the run summary as JSON\n")
	os.Exit(2)
}

func parseArgs() runConfig {
	cfg := runConfig{threads: runtime.NumCPU()}
	var pos []uint64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-t":
			i++
			if i == len(args) {
				usage()
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				usage()
			}
			cfg.threads = n
		case "-s":
			i++
			if i == len(args) {
				usage()
			}
			kib, err := strconv.ParseUint(args[i], 10, 32)
			if err != nil || kib == 0 {
				usage()
			}
			cfg.sieveBytes = uint32(kib) << 10
		case "-p":
			cfg.print = true
		case "-d":
			cfg.digest = true
		case "-json":
			cfg.json = true
		default:
			v, err := strconv.ParseUint(args[i], 10, 64)
			if err != nil {
				usage()
			}
			pos = append(pos, v)
		}
	}

	switch len(pos) {
	case 1:
		cfg.start, cfg.stop = 0, pos[0]
	case 2:
		cfg.start, cfg.stop = pos[0], pos[1]
	default:
		usage()
	}
	if cfg.start > cfg.stop {
		usage()
	}

	// Print and digest modes need the segments in range order: one
	// producer, no subrange interleaving.
	if cfg.print || cfg.digest {
		cfg.threads = 1
	}
	return cfg
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// main orchestrates the complete run lifecycle in distinct phases.
func main() {
	// PHASE 0: Argument parsing and range planning
	cfg := parseArgs()
	setupSignalHandling()

	subranges := plan.Subranges(cfg.start, cfg.stop, cfg.threads)
	cfg.threads = len(subranges)

	debug.DropMessage("PLAN", utils.Utoa(cfg.start)+" to "+utils.Utoa(cfg.stop)+
		" across "+utils.Itoa(cfg.threads)+" worker(s)")

	// PHASE 1: Production sieving with deterministic runtime behavior.
	// The cross-off loops allocate nothing, so collection is pure overhead
	// until the report phase.
	runtime.GC()
	rtdebug.SetGCPercent(-1)
	control.ForceHot()

	began := time.Now()
	rep := report{Start: cfg.start, Stop: cfg.stop, Threads: cfg.threads}

	if cfg.print {
		rep = runPrinting(cfg, rep)
	} else {
		rep = runCounting(cfg, subranges, rep)
	}

	// PHASE 2: Cooldown and report
	control.Cool()
	rtdebug.SetGCPercent(100)
	rep.Seconds = time.Since(began).Seconds()

	if cfg.json {
		out, err := sonnet.Marshal(&rep)
		if err != nil {
			debug.DropError("REPORT", err)
			os.Exit(1)
		}
		utils.PrintInfo(utils.B2s(out) + "\n")
	} else {
		if rep.Digest != "" {
			utils.PrintInfo("digest: " + rep.Digest + "\n")
		}
		if !cfg.print {
			utils.PrintInfo(utils.Utoa(rep.Count) + "\n")
		}
		debug.DropMessage("DONE", utils.Utoa(rep.Count)+" primes in "+
			strconv.FormatFloat(rep.Seconds, 'f', 3, 64)+"s")
	}
	if rep.Aborted {
		os.Exit(130)
	}
}

// setupSignalHandling forwards SIGINT/SIGTERM to the control stop flag;
// workers observe it at the next segment boundary and partial results are
// still reported.
func setupSignalHandling() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		debug.DropMessage("SIGNAL", "stop requested, finishing current segments")
		control.Shutdown()
	}()
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COUNTING MODE (N WORKERS, NO SHARED STATE)
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func runCounting(cfg runConfig, subranges [][2]uint64, rep report) report {
	counts := make([]uint64, len(subranges))
	aborted := make([]bool, len(subranges))
	var wg sync.WaitGroup

	for i, sub := range subranges {
		wg.Add(1)
		go func(i int, lo, hi uint64) {
			defer wg.Done()
			s, err := erat.NewSieve(lo, hi, cfg.sieveBytes)
			if err != nil {
				debug.DropError("SIEVE", err)
				return
			}
			if i == 0 && cfg.digest {
				s.EnableDigest()
			}
			s.Run()
			counts[i] = s.Count()
			aborted[i] = s.Aborted()
			if i == 0 {
				rep.SieveBytes = s.SieveBytes()
				if cfg.digest {
					rep.Digest = "xxh64:" + utils.Hex64(s.DigestSum())
				}
			}
		}(i, sub[0], sub[1])
	}
	wg.Wait()

	for i := range counts {
		rep.Count += counts[i]
		rep.Aborted = rep.Aborted || aborted[i]
	}
	return rep
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PRINT MODE (PRODUCER + PINNED CONSUMER)
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// segBlock is one in-flight segment snapshot. Blocks circulate between the
// data ring (producer → printer) and the free ring (printer → producer),
// so the steady state allocates nothing.
type segBlock struct {
	low  uint64
	data []byte
}

func runPrinting(cfg runConfig, rep report) report {
	s, err := erat.NewSieve(cfg.start, cfg.stop, cfg.sieveBytes)
	if err != nil {
		debug.DropError("SIEVE", err)
		os.Exit(1)
	}
	if cfg.digest {
		s.EnableDigest()
	}
	rep.SieveBytes = s.SieveBytes()

	dataRing := ring.New(constants.RingSize)
	freeRing := ring.New(constants.RingSize)
	blocks := make([]segBlock, constants.RingSize)
	for i := range blocks {
		blocks[i].data = make([]byte, 0, s.SieveBytes())
		freeRing.PushWait(unsafe.Pointer(&blocks[i]))
	}

	// The wheel's base primes precede every segment bit.
	printer := newPrinter()
	for _, p := range s.PrePrimes() {
		printer.emit(p)
	}

	done := make(chan struct{})
	stopFlag, hotFlag := control.Flags()
	ring.PinnedConsumer(1, dataRing, stopFlag, hotFlag, func(p unsafe.Pointer) {
		blk := (*segBlock)(p)
		printer.segment(blk.low, blk.data)
		freeRing.Push(unsafe.Pointer(blk))
	}, done)

	s.SetEmitter(func(low uint64, seg []byte) {
		blk := (*segBlock)(freeRing.PopWait())
		blk.low = low
		blk.data = append(blk.data[:0], seg...)
		dataRing.PushWait(unsafe.Pointer(blk))
	})

	s.Run()
	control.Shutdown() // consumer drains the ring, then exits
	<-done
	printer.flush()

	rep.Count = s.Count()
	rep.Aborted = s.Aborted()
	if cfg.digest {
		rep.Digest = "xxh64:" + utils.Hex64(s.DigestSum())
	}
	return rep
}

// printer turns segment bitmaps into newline-separated decimal primes with
// buffered, allocation-free writes.
type printer struct {
	buf []byte
}

func newPrinter() *printer {
	return &printer{buf: make([]byte, 0, constants.PrintBufBytes)}
}

//go:nosplit
func (w *printer) emit(p uint64) {
	w.buf = utils.AppendUint(w.buf, p)
	w.buf = append(w.buf, '\n')
	if len(w.buf) >= constants.PrintBufBytes-32 {
		w.flush()
	}
}

func (w *printer) segment(low uint64, seg []byte) {
	for i, b := range seg {
		base := low + uint64(i)*30
		for b != 0 {
			w.emit(base + erat.BitValues[bits.TrailingZeros8(b)])
			b &= b - 1
		}
	}
}

func (w *printer) flush() {
	if len(w.buf) == 0 {
		return
	}
	_, _ = syscall.Write(1, w.buf)
	w.buf = w.buf[:0]
}

package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sigmsg.dev/ckbsigmsg/sigmsg"
	"sigmsg.dev/ckbsigmsg/sigmsg/mocktx"
	"sigmsg.dev/ckbsigmsg/sigmsg/vectorcache"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// caseSpec pairs a mode name with the batch count and seed offset
// --mode all runs it at, mirroring the real chain's test suite's mix
// of bare, multi-input, witness-bearing, and large-data fixtures.
type caseSpec struct {
	mode       string
	count      int
	seedOffset int64
}

var allSchedule = []caseSpec{
	{"bare", 5, 0},
	{"multiple-input", 5, 100},
	{"witness", 10, 200},
	{"invalid-witness", 5, 300},
	{"large-data", 3, 400},
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sigmsg-vectorgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := fs.String("mode", "all", "bare|multiple-input|witness|large-data|invalid-witness|all")
	seed := fs.Int64("seed", 1, "base seed for the deterministic RNG")
	outDir := fs.String("output", ".", "directory to write generated vectors to")
	contractPath := fs.String("contract", "", "path to the script-group lock contract binary")
	alwaysSuccessPath := fs.String("always-success", "", "path to the always-success filler lock contract binary")
	cachePath := fs.String("cache", "", "optional bbolt database path to memoize generated vectors")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *contractPath == "" || *alwaysSuccessPath == "" {
		fmt.Fprintln(stderr, "both --contract and --always-success are required")
		return 2
	}
	contractBin, err := os.ReadFile(*contractPath)
	if err != nil {
		fmt.Fprintf(stderr, "read contract: %v\n", err)
		return 2
	}
	alwaysSuccessBin, err := os.ReadFile(*alwaysSuccessPath)
	if err != nil {
		fmt.Fprintf(stderr, "read always-success contract: %v\n", err)
		return 2
	}

	var cache *vectorcache.Cache
	if *cachePath != "" {
		cache, err = vectorcache.Open(*cachePath)
		if err != nil {
			fmt.Fprintf(stderr, "open vector cache: %v\n", err)
			return 2
		}
		defer cache.Close()
	}

	if err := os.MkdirAll(*outDir, 0o750); err != nil {
		fmt.Fprintf(stderr, "create output dir: %v\n", err)
		return 2
	}

	var schedule []caseSpec
	if *mode == "all" {
		schedule = allSchedule
	} else {
		for _, c := range allSchedule {
			if c.mode == *mode {
				schedule = []caseSpec{c}
				break
			}
		}
		if schedule == nil {
			fmt.Fprintf(stderr, "unknown mode %q\n", *mode)
			return 2
		}
	}

	for _, c := range schedule {
		for i := 0; i < c.count; i++ {
			caseSeed := *seed + c.seedOffset + int64(i)
			name := fmt.Sprintf("%s-%d", c.mode, i)
			if err := generateOne(stdout, cache, c.mode, caseSeed, name, *outDir, contractBin, alwaysSuccessBin); err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", name, err)
				return 1
			}
		}
	}
	return 0
}

// cachedVector is the JSON envelope stored in the vector cache and
// written to each <name>.json file.
type cachedVector struct {
	Tx       mocktx.Transaction `json:"tx"`
	MockInfo cachedMockInfo     `json:"mock_info"`
	Indices  []int              `json:"script_group_indices"`
}

// cachedMockInfo re-shapes MockInfo's map (whose OutPoint keys aren't
// valid JSON object keys) into a parallel-array form.
type cachedMockInfo struct {
	OutPoints []mocktx.OutPoint      `json:"out_points"`
	Resolved  []mocktx.ResolvedInput `json:"resolved"`
}

func toCachedVector(mtx *mocktx.MockTransaction, indices []int) cachedVector {
	cv := cachedVector{Tx: mtx.Tx, Indices: indices}
	for op, ri := range mtx.MockInfo.Inputs {
		cv.MockInfo.OutPoints = append(cv.MockInfo.OutPoints, op)
		cv.MockInfo.Resolved = append(cv.MockInfo.Resolved, ri)
	}
	return cv
}

func fromCachedVector(cv cachedVector) (*mocktx.MockTransaction, []int) {
	info := mocktx.MockInfo{Inputs: make(map[mocktx.OutPoint]mocktx.ResolvedInput, len(cv.MockInfo.OutPoints))}
	for i, op := range cv.MockInfo.OutPoints {
		info.Inputs[op] = cv.MockInfo.Resolved[i]
	}
	return &mocktx.MockTransaction{Tx: cv.Tx, MockInfo: info}, cv.Indices
}

func generateOne(stdout io.Writer, cache *vectorcache.Cache, mode string, seed int64, name, outDir string, contractBin, alwaysSuccessBin []byte) error {
	var mtx *mocktx.MockTransaction
	var indices []int

	key := vectorcache.Key{Mode: mode, Seed: seed}
	if cache != nil {
		var cv cachedVector
		ok, err := cache.Get(key, &cv)
		if err != nil {
			return fmt.Errorf("cache get: %w", err)
		}
		if ok {
			mtx, indices = fromCachedVector(cv)
		}
	}

	if mtx == nil {
		built, builtIndices, err := buildCase(mode, seed, contractBin, alwaysSuccessBin)
		if err != nil {
			return err
		}
		mtx, indices = built, builtIndices
		if cache != nil {
			if err := cache.Put(key, toCachedVector(mtx, indices)); err != nil {
				return fmt.Errorf("cache put: %w", err)
			}
		}
	}

	txJSON, err := json.MarshalIndent(toCachedVector(mtx, indices), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tx: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name+".json"), txJSON, 0o640); err != nil {
		return fmt.Errorf("write tx json: %w", err)
	}

	indicesJSON, err := json.Marshal(indices)
	if err != nil {
		return fmt.Errorf("marshal indices: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name+".indices"), indicesJSON, 0o640); err != nil {
		return fmt.Errorf("write indices: %w", err)
	}

	h := sigmsg.NewHasher()
	spec := sigmsg.ByInputIndex(indices[0])
	if err := sigmsg.GenerateSigmsgBFromMockTx(h, mtx, spec); err != nil {
		// Some modes (invalid-witness) deliberately produce a
		// transaction the constructor must reject. The fixture itself
		// is still useful (it's what an assertion-replay test feeds to
		// sigmsg-assert to see the rejection), so the .json/.indices
		// written above are kept; only the .hash is omitted.
		fmt.Fprintf(stdout, "%s: inputs=%d group=%v construction rejected: %v\n", name, len(mtx.Tx.Inputs), indices, err)
		return nil
	}
	digest := h.Sum()
	if err := os.WriteFile(filepath.Join(outDir, name+".hash"), []byte(hex.EncodeToString(digest[:])+"\n"), 0o640); err != nil {
		return fmt.Errorf("write hash: %w", err)
	}

	fmt.Fprintf(stdout, "%s: inputs=%d group=%v digest=%x\n", name, len(mtx.Tx.Inputs), indices, digest)
	return nil
}

func buildCase(mode string, seed int64, contractBin, alwaysSuccessBin []byte) (*mocktx.MockTransaction, []int, error) {
	switch mode {
	case "bare":
		return sigmsg.BuildBareTx(contractBin, alwaysSuccessBin, seed)
	case "multiple-input":
		return sigmsg.BuildBareTxMultipleInputCells(contractBin, alwaysSuccessBin, seed)
	case "witness":
		return sigmsg.BuildTxWithWitnessData(contractBin, alwaysSuccessBin, seed)
	case "large-data":
		return sigmsg.BuildTxWithSuperLargeData(contractBin, alwaysSuccessBin, seed)
	case "invalid-witness":
		mtx, indices, err := sigmsg.BuildTxWithWitnessData(contractBin, alwaysSuccessBin, seed)
		if err != nil {
			return nil, nil, err
		}
		if err := sigmsg.CorruptWitnessLock(mtx, indices[0], seed+1); err != nil {
			return nil, nil, err
		}
		return mtx, indices, nil
	default:
		return nil, nil, fmt.Errorf("unknown mode %q", mode)
	}
}

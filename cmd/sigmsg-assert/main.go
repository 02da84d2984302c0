package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"sigmsg.dev/ckbsigmsg/sigmsg"
	"sigmsg.dev/ckbsigmsg/sigmsg/mocktx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cachedVector mirrors cmd/sigmsg-vectorgen's on-disk vector format.
type cachedVector struct {
	Tx       mocktx.Transaction `json:"tx"`
	MockInfo cachedMockInfo     `json:"mock_info"`
	Indices  []int              `json:"script_group_indices"`
}

type cachedMockInfo struct {
	OutPoints []mocktx.OutPoint      `json:"out_points"`
	Resolved  []mocktx.ResolvedInput `json:"resolved"`
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sigmsg-assert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	vectorPath := fs.String("vector", "", "path to a <name>.json vector produced by sigmsg-vectorgen")
	variant := fs.String("variant", "b", "sigmsg variant to assert: a|b")
	if err := fs.Parse(args); err != nil {
		return sigmsg.ExitConstructionError
	}
	if *vectorPath == "" {
		fmt.Fprintln(stderr, "--vector is required")
		return sigmsg.ExitConstructionError
	}

	raw, err := os.ReadFile(*vectorPath)
	if err != nil {
		fmt.Fprintf(stderr, "read vector: %v\n", err)
		return sigmsg.ExitConstructionError
	}
	var cv cachedVector
	if err := json.Unmarshal(raw, &cv); err != nil {
		fmt.Fprintf(stderr, "parse vector: %v\n", err)
		return sigmsg.ExitConstructionError
	}
	if len(cv.Indices) == 0 {
		fmt.Fprintln(stderr, "vector has no script group indices")
		return sigmsg.ExitConstructionError
	}

	info := mocktx.MockInfo{Inputs: make(map[mocktx.OutPoint]mocktx.ResolvedInput, len(cv.MockInfo.OutPoints))}
	for i, op := range cv.MockInfo.OutPoints {
		info.Inputs[op] = cv.MockInfo.Resolved[i]
	}
	mtx := &mocktx.MockTransaction{Tx: cv.Tx, MockInfo: info}

	loader, err := sigmsg.NewMockLoader(mtx, sigmsg.ByInputIndex(cv.Indices[0]))
	if err != nil {
		fmt.Fprintf(stderr, "locate script group: %v\n", err)
		return sigmsg.ExitConstructionError
	}

	var assertErr error
	switch *variant {
	case "a":
		assertErr = sigmsg.AssertSigmsgA(loader)
	case "b":
		assertErr = sigmsg.AssertSigmsgB(loader)
	default:
		fmt.Fprintf(stderr, "unknown variant %q\n", *variant)
		return sigmsg.ExitConstructionError
	}

	code := sigmsg.ExitCode(assertErr)
	switch code {
	case sigmsg.ExitOK:
		fmt.Fprintln(stdout, "ok")
	case sigmsg.ExitMismatch:
		fmt.Fprintln(stdout, "mismatch")
	default:
		fmt.Fprintf(stdout, "error: %v\n", assertErr)
	}
	return code
}

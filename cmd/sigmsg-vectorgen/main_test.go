package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeStandInContract(t *testing.T, dir, name string, seed byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := bytes.Repeat([]byte{seed}, 64)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunRequiresContractFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--mode", "bare", "--output", t.TempDir()}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("got exit %d want 2", code)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected an error message on stderr")
	}
}

func TestRunBareModeGeneratesSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	lockPath := writeStandInContract(t, dir, "lock.so", 1)
	alwaysPath := writeStandInContract(t, dir, "always.so", 2)
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--mode", "bare",
		"--seed", "5",
		"--output", outDir,
		"--contract", lockPath,
		"--always-success", alwaysPath,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run: exit %d, stderr=%s", code, stderr.String())
	}

	for _, c := range allSchedule {
		if c.mode != "bare" {
			continue
		}
		for i := 0; i < c.count; i++ {
			base := filepath.Join(outDir, "bare-"+strconv.Itoa(i))
			for _, ext := range []string{".json", ".indices", ".hash"} {
				if _, err := os.Stat(base + ext); err != nil {
					t.Fatalf("expected %s to exist: %v", base+ext, err)
				}
			}
		}
	}
}

func TestRunInvalidWitnessModeOmitsHashFile(t *testing.T) {
	// The invalid-witness fixture's first witness has a corrupted
	// WitnessArgs header, so construction itself rejects it; the run
	// still succeeds (exit 0) and still writes .json/.indices for the
	// fixture, but no .hash is produced.
	dir := t.TempDir()
	lockPath := writeStandInContract(t, dir, "lock.so", 3)
	alwaysPath := writeStandInContract(t, dir, "always.so", 4)
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--mode", "invalid-witness",
		"--seed", "9",
		"--output", outDir,
		"--contract", lockPath,
		"--always-success", alwaysPath,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run: exit %d, stderr=%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(outDir, "invalid-witness-0.hash")); err == nil {
		t.Fatal("expected no hash file for the invalid-witness fixture")
	} else if !os.IsNotExist(err) {
		t.Fatalf("stat hash file: %v", err)
	}
	if !strings.Contains(stdout.String(), "construction rejected") {
		t.Fatalf("expected stdout to report the rejection, got %q", stdout.String())
	}

	var indices []int
	raw, err := os.ReadFile(filepath.Join(outDir, "invalid-witness-0.indices"))
	if err != nil {
		t.Fatalf("read indices: %v", err)
	}
	if err := json.Unmarshal(raw, &indices); err != nil {
		t.Fatalf("unmarshal indices: %v", err)
	}
	if len(indices) == 0 {
		t.Fatal("expected a non-empty script group index list")
	}
}

func TestRunUnknownModeFails(t *testing.T) {
	dir := t.TempDir()
	lockPath := writeStandInContract(t, dir, "lock.so", 5)
	alwaysPath := writeStandInContract(t, dir, "always.so", 6)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--mode", "nonexistent",
		"--output", t.TempDir(),
		"--contract", lockPath,
		"--always-success", alwaysPath,
	}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("got exit %d want 2", code)
	}
}

func TestRunWithCacheReusesGeneratedVector(t *testing.T) {
	dir := t.TempDir()
	lockPath := writeStandInContract(t, dir, "lock.so", 7)
	alwaysPath := writeStandInContract(t, dir, "always.so", 8)
	cachePath := filepath.Join(dir, "cache.bolt")
	outDir1 := filepath.Join(dir, "out1")
	outDir2 := filepath.Join(dir, "out2")

	var stdout1, stderr1 bytes.Buffer
	if code := run([]string{
		"--mode", "bare", "--seed", "1", "--output", outDir1,
		"--contract", lockPath, "--always-success", alwaysPath, "--cache", cachePath,
	}, &stdout1, &stderr1); code != 0 {
		t.Fatalf("first run: exit %d, stderr=%s", code, stderr1.String())
	}

	var stdout2, stderr2 bytes.Buffer
	if code := run([]string{
		"--mode", "bare", "--seed", "1", "--output", outDir2,
		"--contract", lockPath, "--always-success", alwaysPath, "--cache", cachePath,
	}, &stdout2, &stderr2); code != 0 {
		t.Fatalf("second run: exit %d, stderr=%s", code, stderr2.String())
	}

	first, err := os.ReadFile(filepath.Join(outDir1, "bare-0.hash"))
	if err != nil {
		t.Fatalf("read first hash: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(outDir2, "bare-0.hash"))
	if err != nil {
		t.Fatalf("read second hash: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("cached run produced a different digest: %s vs %s", first, second)
	}
}

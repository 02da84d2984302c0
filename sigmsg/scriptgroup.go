package sigmsg

import "sigmsg.dev/ckbsigmsg/sigmsg/mocktx"

// ScriptOrIndex identifies the current script group (C4, off-chain
// only): either a lock script value directly, or the index of an
// input whose resolved cell's lock script supplies it.
type ScriptOrIndex struct {
	script  mocktx.Script
	index   int
	byIndex bool
}

// ByScript builds a ScriptOrIndex that names the group's lock script
// directly.
func ByScript(s mocktx.Script) ScriptOrIndex {
	return ScriptOrIndex{script: s}
}

// ByInputIndex builds a ScriptOrIndex that derives the group's lock
// script from the resolved cell of input i.
func ByInputIndex(i int) ScriptOrIndex {
	return ScriptOrIndex{index: i, byIndex: true}
}

// LocateScriptGroup resolves spec against the already-resolved input
// sequence, returning the ascending list of indices whose cell's lock
// script matches (C4). An empty result, or an out-of-range index
// specifier, is ErrUnknownScriptGroup.
func LocateScriptGroup(inputs []mocktx.ResolvedInput, spec ScriptOrIndex) ([]int, error) {
	script := spec.script
	if spec.byIndex {
		if spec.index < 0 || spec.index >= len(inputs) {
			return nil, newErr(ErrUnknownScriptGroup, "index out of range")
		}
		script = inputs[spec.index].Output.Lock
	}

	var indices []int
	for i, in := range inputs {
		if in.Output.Lock.Equal(script) {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil, newErr(ErrUnknownScriptGroup, "no input matches the requested lock script")
	}
	return indices, nil
}

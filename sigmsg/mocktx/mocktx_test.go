package mocktx

import (
	"bytes"
	"testing"
)

func TestScriptEqual(t *testing.T) {
	a := Script{CodeHash: [32]byte{1}, HashType: 0, Args: []byte{1, 2}}
	b := Script{CodeHash: [32]byte{1}, HashType: 0, Args: []byte{1, 2}}
	c := Script{CodeHash: [32]byte{1}, HashType: 1, Args: []byte{1, 2}}
	d := Script{CodeHash: [32]byte{1}, HashType: 0, Args: []byte{1, 3}}

	if !a.Equal(b) {
		t.Fatal("identical scripts compared unequal")
	}
	if a.Equal(c) {
		t.Fatal("scripts differing in hash-type compared equal")
	}
	if a.Equal(d) {
		t.Fatal("scripts differing in args compared equal")
	}
}

func TestCellOutputBytesDeterministic(t *testing.T) {
	s := Script{CodeHash: [32]byte{9}, HashType: 0, Args: []byte("args")}
	c := CellOutput{Capacity: 100, Lock: s}
	if !bytes.Equal(c.Bytes(), c.Bytes()) {
		t.Fatal("same CellOutput serialized differently across calls")
	}
}

func TestCellOutputBytesSensitiveToFields(t *testing.T) {
	s := Script{CodeHash: [32]byte{9}, HashType: 0, Args: []byte("args")}
	base := CellOutput{Capacity: 100, Lock: s}
	withDifferentCapacity := CellOutput{Capacity: 101, Lock: s}
	if bytes.Equal(base.Bytes(), withDifferentCapacity.Bytes()) {
		t.Fatal("changing capacity did not change the serialized bytes")
	}

	typeScript := Script{CodeHash: [32]byte{3}}
	withType := CellOutput{Capacity: 100, Lock: s, Type: &typeScript}
	if bytes.Equal(base.Bytes(), withType.Bytes()) {
		t.Fatal("adding a type script did not change the serialized bytes")
	}
}

func TestEncodeBytesValueLengthPrefix(t *testing.T) {
	got := EncodeBytesValue([]byte("hi"))
	want := []byte{2, 0, 0, 0, 'h', 'i'}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestCalcTxHashDeterministicAndSensitive(t *testing.T) {
	base := Transaction{
		Version: 1,
		Inputs:  []CellInput{{PreviousOutput: OutPoint{Index: 0}}},
		Outputs: []CellOutput{{Capacity: 10}},
	}
	h1 := base.CalcTxHash()
	h2 := base.CalcTxHash()
	if h1 != h2 {
		t.Fatal("CalcTxHash is not deterministic across calls")
	}

	mutated := base
	mutated.Outputs = []CellOutput{{Capacity: 11}}
	if mutated.CalcTxHash() == h1 {
		t.Fatal("changing an output's capacity did not change the tx hash")
	}

	withWitness := base
	withWitness.Witnesses = [][]byte{[]byte("unrelated witness")}
	if withWitness.CalcTxHash() != h1 {
		t.Fatal("tx hash must exclude witnesses, per the raw/witness split")
	}
}

func TestResolveInputsMissingCell(t *testing.T) {
	mtx := MockTransaction{
		Tx: Transaction{Inputs: []CellInput{{PreviousOutput: OutPoint{Index: 1}}}},
		MockInfo: MockInfo{
			Inputs: map[OutPoint]ResolvedInput{},
		},
	}
	if _, err := mtx.ResolveInputs(); err != ErrMissingCell {
		t.Fatalf("got %v want ErrMissingCell", err)
	}
}

func TestResolveInputsOrderMatchesInputOrder(t *testing.T) {
	opA := OutPoint{Index: 0}
	opB := OutPoint{Index: 1}
	opA.TxHash[0] = 1
	opB.TxHash[0] = 2
	mtx := MockTransaction{
		Tx: Transaction{Inputs: []CellInput{
			{PreviousOutput: opB},
			{PreviousOutput: opA},
		}},
		MockInfo: MockInfo{Inputs: map[OutPoint]ResolvedInput{
			opA: {Output: CellOutput{Capacity: 1}},
			opB: {Output: CellOutput{Capacity: 2}},
		}},
	}
	resolved, err := mtx.ResolveInputs()
	if err != nil {
		t.Fatalf("ResolveInputs: %v", err)
	}
	if resolved[0].Output.Capacity != 2 || resolved[1].Output.Capacity != 1 {
		t.Fatalf("resolved inputs not in transaction input order: %+v", resolved)
	}
}

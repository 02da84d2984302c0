package mocktx

// EncodeWitnessArgs builds a serialized WitnessArgs envelope from its
// three logical fields. A nil field is encoded as absent (molecule's
// empty-option representation); a non-nil field, including an empty
// but non-nil slice, is encoded present.
func EncodeWitnessArgs(lock, inputType, outputType []byte) []byte {
	return EncodeWitnessArgsFields(optionalBytesField(lock), optionalBytesField(inputType), optionalBytesField(outputType))
}

// EncodeWitnessArgsFields builds a serialized WitnessArgs envelope from
// its three already-encoded table fields (each either empty, for an
// absent value, or the output of EncodeBytesValue). This is the form
// sigmsg.WitnessArgs's LockField/InputTypeField/OutputTypeField
// accessors return, so a lock field can be replaced in place by
// re-encoding with the other two fields copied verbatim.
func EncodeWitnessArgsFields(lockField, inputTypeField, outputTypeField []byte) []byte {
	return encodeTable([][]byte{lockField, inputTypeField, outputTypeField})
}

func optionalBytesField(v []byte) []byte {
	if v == nil {
		return nil
	}
	return EncodeBytesValue(v)
}

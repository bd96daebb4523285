package multicell

import "fmt"

// MissingDataError names a Ref hash that could not be resolved -- distinct
// from cell.FormatError, which is reserved for malformed bytes. No function
// in this package returns it: DecodeMultiCell leaves unresolved hashes as
// indirect Refs.
type MissingDataError struct {
	Hash [32]byte
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("multicell: missing data for hash %x", e.Hash)
}

// DictionaryConflictError is raised when a multi-cell buffer contains two
// encodings whose declared hash collides but whose bytes differ.
type DictionaryConflictError struct {
	Hash [32]byte
}

func (e *DictionaryConflictError) Error() string {
	return fmt.Sprintf("multicell: conflicting encodings for hash %x", e.Hash)
}

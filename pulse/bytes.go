package pulse

import "unsafe"

// AsByteSlice reinterprets the memory of value as a byte slice, e.g. to upload
// a uniform struct to a buffer.
func AsByteSlice[T any](value *T) []byte {
	var zeroT T

	n := unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(value))

	return unsafe.Slice(ptr, n)
}

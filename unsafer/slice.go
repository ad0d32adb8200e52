// Package unsafer reinterprets Go values as raw bytes for uploading them to
// GPU memory.
package unsafer

import (
	"unsafe"
)

// SliceToBytes interprets an arbitrary input slice as a byte slice.
//
// Note that the returned slice points to the same underlying data in memory. It
// does not make a copy.
func SliceToBytes[T any](input []T) []byte {
	if len(input) == 0 {
		return nil
	}

	size := int(unsafe.Sizeof(input[0])) * len(input)
	return unsafe.Slice((*byte)(unsafe.Pointer(&input[0])), size)
}

// StructToBytes returns the memory of the value pointed to by input as a byte
// slice. Like SliceToBytes it does not copy.
func StructToBytes[T any](input *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(input)), unsafe.Sizeof(*input))
}

// BytesToUint32 copies data into a freshly allocated uint32 slice. Trailing
// bytes which do not fill a whole word are dropped. SPIR-V bytecode is handed
// to Vulkan in this form.
func BytesToUint32(data []byte) []uint32 {
	buf := make([]uint32, len(data)/4)
	if len(buf) == 0 {
		return buf
	}

	copy(SliceToBytes(buf), data)
	return buf
}

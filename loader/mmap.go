package loader

import "os"

// mmapFile returns the whole contents of the file (font or subtitle) at path. Callers
// only need the bytes, never a live mapping, so a plain read serves the
// same purpose without an OS-specific mmap syscall wrapper.
func mmapFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

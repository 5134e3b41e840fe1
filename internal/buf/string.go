package buf

import "unsafe"

// String returns a string view over b without copying. The caller must
// guarantee b is never mutated for the lifetime of the returned string; blob
// buffers handed to the parser satisfy this because every access is read-only.
func String(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

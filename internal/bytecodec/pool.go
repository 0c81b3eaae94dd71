package bytecodec

import "sync"

// StringPool resolves string-offset cells against a shared byte range,
// memoizing every non-zero offset it has decoded. A zero offset always
// decodes to the empty string without touching the cache. An offset outside
// [start, start+size) decodes to the empty string (soft failure, never an
// error) per the format's string policy.
type StringPool struct {
	data  []byte
	start uint32
	size  uint32

	mu    sync.Mutex
	cache map[uint32]string
}

// NewStringPool wraps the full file contents together with the pool's
// absolute offset and byte size as recorded in the database header.
func NewStringPool(data []byte, start, size uint32) *StringPool {
	return &StringPool{data: data, start: start, size: size, cache: make(map[uint32]string)}
}

// Resolve decodes the string at the given absolute offset, memoizing the
// result. It never returns an error: out-of-range offsets decode to "".
func (p *StringPool) Resolve(offset uint32) string {
	if offset == 0 {
		return ""
	}
	if offset < p.start || offset >= p.start+p.size {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.cache[offset]; ok {
		return s
	}
	s, _, ok := ReadLengthPrefixedString(p.data, int(offset))
	if !ok {
		s = ""
	}
	p.cache[offset] = s
	return s
}

// Len reports how many distinct offsets have been memoized so far.
func (p *StringPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}

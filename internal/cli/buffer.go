package cli

const initialBufferSize = 1024

// editBuffer is the line being typed plus the cursor position.
// Invariant: 0 <= cursor <= n, and data[:n] is the logical content.
type editBuffer struct {
	data   []byte
	n      int
	cursor int
}

func newEditBuffer() *editBuffer {
	return &editBuffer{data: make([]byte, initialBufferSize)}
}

func (b *editBuffer) Len() int       { return b.n }
func (b *editBuffer) Cursor() int    { return b.cursor }
func (b *editBuffer) String() string { return string(b.data[:b.n]) }

// Bytes aliases the content; callers must not keep it past the next edit.
func (b *editBuffer) Bytes() []byte { return b.data[:b.n] }

// grow doubles capacity until need bytes fit. Existing content is preserved.
func (b *editBuffer) grow(need int) {
	if need <= len(b.data) {
		return
	}
	size := len(b.data)
	if size == 0 {
		size = initialBufferSize
	}
	for size < need {
		size *= 2
	}
	data := make([]byte, size)
	copy(data, b.data[:b.n])
	b.data = data
}

// Insert places c at the cursor and advances it.
func (b *editBuffer) Insert(c byte) {
	b.grow(b.n + 1)
	copy(b.data[b.cursor+1:b.n+1], b.data[b.cursor:b.n])
	b.data[b.cursor] = c
	b.n++
	b.cursor++
}

// Backspace removes the byte before the cursor. It reports whether anything
// was removed.
func (b *editBuffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	copy(b.data[b.cursor-1:], b.data[b.cursor:b.n])
	b.n--
	b.cursor--
	return true
}

func (b *editBuffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

func (b *editBuffer) Right() bool {
	if b.cursor >= b.n {
		return false
	}
	b.cursor++
	return true
}

// Replace swaps the whole content for s and parks the cursor at the end.
func (b *editBuffer) Replace(s string) {
	b.grow(len(s))
	b.n = copy(b.data, s)
	b.cursor = b.n
}

package clip

import "bytes"

// claim records what this process last put into a buffer.
type claim struct {
	mime string
	data []byte
}

// claims infers ownership for backends that cannot observe it directly: we
// still own a buffer while it offers exactly the bytes we put.
type claims map[Buffer]*claim

func (c claims) set(b Buffer, mime string, data []byte) {
	c[b] = &claim{mime: mime, data: bytes.Clone(data)}
}

// lost reports whether buffer b no longer holds our claim. An empty claim
// survives a failed or empty read, since the tools report an empty buffer
// either way.
func (c claims) lost(b Buffer, read func(mime string) ([]byte, bool)) bool {
	cl, ok := c[b]
	if !ok {
		return true
	}
	cur, ok := read(cl.mime)
	if len(cl.data) == 0 {
		return ok && len(cur) > 0
	}
	return !ok || !bytes.Equal(cur, cl.data)
}

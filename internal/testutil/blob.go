// Package testutil builds FDT blobs in memory for tests. The builder writes
// exactly the tokens it is told to, so tests can produce malformed streams
// (extra end tokens, missing terminators) as easily as valid trees.
package testutil

import "encoding/binary"

const (
	tokenBeginNode uint32 = 0x1
	tokenEndNode   uint32 = 0x2
	tokenProp      uint32 = 0x3
	tokenNop       uint32 = 0x4
	tokenEnd       uint32 = 0x9

	headerSize = 0x28
	magic      = 0xd00dfeed
)

// Blob assembles a DTB: header, reservation map, structure block, strings
// block. Methods chain; call Build to get the final bytes.
type Blob struct {
	reserves []uint64 // address/size pairs
	strukt   []byte
	strings  []byte
	strOffs  map[string]uint32
	omitEnd  bool
	version  uint32
	lastComp uint32
}

// NewBlob returns an empty builder targeting format version 17.
func NewBlob() *Blob {
	return &Blob{strOffs: map[string]uint32{}, version: 17, lastComp: 16}
}

// Version overrides the header version fields.
func (b *Blob) Version(version, lastComp uint32) *Blob {
	b.version = version
	b.lastComp = lastComp
	return b
}

// Reserve appends one memory reservation record.
func (b *Blob) Reserve(addr, size uint64) *Blob {
	b.reserves = append(b.reserves, addr, size)
	return b
}

// BeginNode emits FDT_BEGIN_NODE with the given name.
func (b *Blob) BeginNode(name string) *Blob {
	b.word(tokenBeginNode)
	b.strukt = append(b.strukt, name...)
	b.strukt = append(b.strukt, 0)
	b.pad()
	return b
}

// EndNode emits FDT_END_NODE.
func (b *Blob) EndNode() *Blob {
	b.word(tokenEndNode)
	return b
}

// Nop emits FDT_NOP.
func (b *Blob) Nop() *Blob {
	b.word(tokenNop)
	return b
}

// Token emits an arbitrary token word, for malformed-stream tests.
func (b *Blob) Token(v uint32) *Blob {
	b.word(v)
	return b
}

// Prop emits FDT_PROP with a raw value, interning the name in the strings block.
func (b *Blob) Prop(name string, value []byte) *Blob {
	b.word(tokenProp)
	b.word(uint32(len(value)))
	b.word(b.internString(name))
	b.strukt = append(b.strukt, value...)
	b.pad()
	return b
}

// PropU32 emits a single-cell property.
func (b *Blob) PropU32(name string, v uint32) *Blob {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return b.Prop(name, buf[:])
}

// PropU64 emits a two-cell property.
func (b *Blob) PropU64(name string, v uint64) *Blob {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return b.Prop(name, buf[:])
}

// PropStr emits a string-list property (each entry null-terminated).
func (b *Blob) PropStr(name string, entries ...string) *Blob {
	var v []byte
	for _, e := range entries {
		v = append(v, e...)
		v = append(v, 0)
	}
	return b.Prop(name, v)
}

// PropCells emits a cell-array property.
func (b *Blob) PropCells(name string, cells ...uint32) *Blob {
	v := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.BigEndian.PutUint32(v[i*4:], c)
	}
	return b.Prop(name, v)
}

// OmitEnd suppresses the automatic FDT_END, for malformed-stream tests.
func (b *Blob) OmitEnd() *Blob {
	b.omitEnd = true
	return b
}

// Build assembles the blob.
func (b *Blob) Build() []byte {
	strukt := b.strukt
	if !b.omitEnd {
		var w [4]byte
		binary.BigEndian.PutUint32(w[:], tokenEnd)
		strukt = append(append([]byte{}, strukt...), w[:]...)
	}

	rsvSize := (len(b.reserves)/2 + 1) * 16
	offRsv := headerSize
	offStruct := offRsv + rsvSize
	offStrings := offStruct + len(strukt)
	total := offStrings + len(b.strings)

	out := make([]byte, total)
	be := binary.BigEndian
	be.PutUint32(out[0x00:], magic)
	be.PutUint32(out[0x04:], uint32(total))
	be.PutUint32(out[0x08:], uint32(offStruct))
	be.PutUint32(out[0x0c:], uint32(offStrings))
	be.PutUint32(out[0x10:], uint32(offRsv))
	be.PutUint32(out[0x14:], b.version)
	be.PutUint32(out[0x18:], b.lastComp)
	be.PutUint32(out[0x1c:], 0)
	be.PutUint32(out[0x20:], uint32(len(b.strings)))
	be.PutUint32(out[0x24:], uint32(len(strukt)))

	off := offRsv
	for i := 0; i < len(b.reserves); i += 2 {
		be.PutUint64(out[off:], b.reserves[i])
		be.PutUint64(out[off+8:], b.reserves[i+1])
		off += 16
	}
	// terminator pair is already zero

	copy(out[offStruct:], strukt)
	copy(out[offStrings:], b.strings)
	return out
}

// Simple builds the one-node fixture used across packages: a root with a
// compatible property and a couple of typical children.
func Simple() []byte {
	return NewBlob().
		BeginNode("").
		PropStr("compatible", "vendor,board").
		PropU32("#address-cells", 2).
		PropU32("#size-cells", 1).
		BeginNode("memory@80000000").
		PropCells("reg", 0, 0x8000_0000, 0x1000_0000).
		EndNode().
		BeginNode("chosen").
		PropStr("bootargs", "console=ttyS0").
		EndNode().
		EndNode().
		Build()
}

func (b *Blob) word(v uint32) {
	var w [4]byte
	binary.BigEndian.PutUint32(w[:], v)
	b.strukt = append(b.strukt, w[:]...)
}

func (b *Blob) pad() {
	for len(b.strukt)%4 != 0 {
		b.strukt = append(b.strukt, 0)
	}
}

func (b *Blob) internString(name string) uint32 {
	if off, ok := b.strOffs[name]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, name...)
	b.strings = append(b.strings, 0)
	b.strOffs[name] = off
	return off
}

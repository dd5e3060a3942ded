package richtext

import (
	"strings"

	"github.com/npillmayer/cords"
)

// Cord assembles the text content of the document as a cord, one leaf
// per block (including blocks inside table cells), each terminated by a
// newline. Image placeholders contribute their object replacement
// character.
func (doc *Document) Cord() cords.Cord {
	b := cords.NewBuilder()
	_ = doc.EachBlock(func(block *Block) error {
		text := block.Text()
		if block.Table() != nil {
			return nil // cell blocks are visited separately
		}
		leaf := &blockLeaf{content: text + "\n"}
		b.Append(leaf)
		return nil
	})
	return b.Cord()
}

// Text returns the plain text content of the document.
func (doc *Document) Text() string {
	var sb strings.Builder
	_ = doc.Cord().EachLeaf(func(l cords.Leaf, pos uint64) error {
		sb.WriteString(l.String())
		return nil
	})
	return sb.String()
}

// blockLeaf is the leaf type for cords assembled from document blocks.
// Not intended for client usage.
type blockLeaf struct {
	content string
}

// Weight is part of interface cords.Leaf.
func (l blockLeaf) Weight() uint64 {
	return uint64(len(l.content))
}

// String is part of interface cords.Leaf.
func (l blockLeaf) String() string {
	return l.content
}

// Split is part of interface cords.Leaf.
func (l blockLeaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	left := &blockLeaf{content: l.content[:i]}
	right := &blockLeaf{content: l.content[i:]}
	return left, right
}

// Substring is part of interface cords.Leaf.
func (l blockLeaf) Substring(i, j uint64) []byte {
	return []byte(l.content)[i:j]
}

var _ cords.Leaf = blockLeaf{}

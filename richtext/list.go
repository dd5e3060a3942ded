package richtext

// List groups blocks into an ordered or unordered list. Items are member
// blocks; nesting of lists is expressed through the indent attribute of
// their formats, not through containment.
type List struct {
	format ListFormat
	items  []*Block
}

// Format returns the list's attributes.
func (l *List) Format() ListFormat {
	return l.format
}

// Count returns the number of item blocks.
func (l *List) Count() int {
	return len(l.items)
}

// Item returns the i-th item block, or nil if out of range.
func (l *List) Item(i int) *Block {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Add makes block b a member of the list.
func (l *List) Add(b *Block) {
	if b == nil {
		return
	}
	b.list = l
	l.items = append(l.items, b)
}

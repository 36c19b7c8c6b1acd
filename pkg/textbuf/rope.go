package textbuf

// maxLeaf bounds the number of characters stored in a single leaf.
const maxLeaf = 1024

// node is one vertex of an AVL-balanced rope. Leaves hold characters;
// branches hold two children and cache the totals of their subtree so that
// offset and line lookups descend in O(log n). Nodes are never mutated after
// construction, which keeps split and join free of aliasing bugs.
type node struct {
	left, right *node
	leaf        []rune

	chars    int
	newlines int
	height   int
}

func newLeaf(r []rune) *node {
	if len(r) == 0 {
		return nil
	}
	n := &node{leaf: r, chars: len(r), height: 1}
	for _, c := range r {
		if c == '\n' {
			n.newlines++
		}
	}
	return n
}

func newBranch(l, r *node) *node {
	return &node{
		left:     l,
		right:    r,
		chars:    l.chars + r.chars,
		newlines: l.newlines + r.newlines,
		height:   max(l.height, r.height) + 1,
	}
}

func (n *node) isLeaf() bool { return n.left == nil }

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.chars
}

func newlines(n *node) int {
	if n == nil {
		return 0
	}
	return n.newlines
}

// build creates a perfectly balanced rope over r.
func build(r []rune) *node {
	if len(r) <= maxLeaf {
		return newLeaf(r)
	}
	mid := len(r) / 2
	return newBranch(build(r[:mid]), build(r[mid:]))
}

func rotateLeft(n *node) *node {
	r := n.right
	return newBranch(newBranch(n.left, r.left), r.right)
}

func rotateRight(n *node) *node {
	l := n.left
	return newBranch(l.left, newBranch(l.right, n.right))
}

// balance restores the AVL property at n, assuming both children are valid
// AVL trees whose heights differ by at most two.
func balance(n *node) *node {
	if n.isLeaf() {
		return n
	}
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		left := n.left
		if height(left.left) < height(left.right) {
			n = newBranch(rotateLeft(left), n.right)
		}
		return rotateRight(n)
	case bf < -1:
		right := n.right
		if height(right.right) < height(right.left) {
			n = newBranch(n.left, rotateRight(right))
		}
		return rotateLeft(n)
	default:
		return n
	}
}

// join concatenates l and r, descending the taller side so the result stays
// balanced. Adjacent small leaves are merged to keep the tree shallow after
// many single-character splices.
func join(l, r *node) *node {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	}

	if l.isLeaf() && r.isLeaf() && l.chars+r.chars <= maxLeaf {
		merged := make([]rune, 0, l.chars+r.chars)
		merged = append(merged, l.leaf...)
		merged = append(merged, r.leaf...)
		return newLeaf(merged)
	}

	hl, hr := height(l), height(r)
	switch {
	case hl > hr+1:
		return balance(newBranch(l.left, join(l.right, r)))
	case hr > hl+1:
		return balance(newBranch(join(l, r.left), r.right))
	default:
		return newBranch(l, r)
	}
}

// split divides n into the characters before offset i and those from i on.
func split(n *node, i int) (*node, *node) {
	switch {
	case n == nil:
		return nil, nil
	case i <= 0:
		return nil, n
	case i >= n.chars:
		return n, nil
	}

	if n.isLeaf() {
		head := make([]rune, i)
		copy(head, n.leaf[:i])
		tail := make([]rune, n.chars-i)
		copy(tail, n.leaf[i:])
		return newLeaf(head), newLeaf(tail)
	}

	switch leftSize := n.left.chars; {
	case i < leftSize:
		ll, lr := split(n.left, i)
		return ll, join(lr, n.right)
	case i == leftSize:
		return n.left, n.right
	default:
		rl, rr := split(n.right, i-leftSize)
		return join(n.left, rl), rr
	}
}

// offsetAfterNewline returns the character offset just past the k-th
// newline (k >= 1) in n. The caller guarantees k <= newlines(n).
func offsetAfterNewline(n *node, k int) int {
	offset := 0
	for !n.isLeaf() {
		if k <= n.left.newlines {
			n = n.left
			continue
		}
		k -= n.left.newlines
		offset += n.left.chars
		n = n.right
	}
	for i, c := range n.leaf {
		if c != '\n' {
			continue
		}
		k--
		if k == 0 {
			return offset + i + 1
		}
	}
	return offset + n.chars
}

// runeAt returns the character at offset i. The caller guarantees
// 0 <= i < size(n).
func runeAt(n *node, i int) rune {
	for !n.isLeaf() {
		if i < n.left.chars {
			n = n.left
			continue
		}
		i -= n.left.chars
		n = n.right
	}
	return n.leaf[i]
}

// walk calls fn for each leaf in order.
func walk(n *node, fn func([]rune)) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		fn(n.leaf)
		return
	}
	walk(n.left, fn)
	walk(n.right, fn)
}

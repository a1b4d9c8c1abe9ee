package voronoi

// rbt - красно-черное дерево с прошивкой previous/next.
// Хранит пляжную линию (дуги слева направо) и очередь событий круга.
// Порядок задаёт только место вставки, ключей нет.
type rbt struct {
	root *rbtNode
}

// rbtNodeValue - значение узла знает свой узел, чтобы удаляться за O(log n)
type rbtNodeValue interface {
	bindToNode(node *rbtNode)
	Node() *rbtNode
}

type rbtNode struct {
	value    rbtNodeValue
	left     *rbtNode
	right    *rbtNode
	parent   *rbtNode
	previous *rbtNode
	next     *rbtNode
	red      bool
}

type dir int

const (
	toLeft dir = iota
	toRight
)

func (s dir) flip() dir { return 1 - s }

func (n *rbtNode) child(s dir) *rbtNode {
	if s == toLeft {
		return n.left
	}
	return n.right
}

func (n *rbtNode) setChild(s dir, c *rbtNode) {
	if s == toLeft {
		n.left = c
	} else {
		n.right = c
	}
}

// dirIn - с какой стороны n висит у своего родителя
func (n *rbtNode) dirIn(parent *rbtNode) dir {
	if parent.left == n {
		return toLeft
	}
	return toRight
}

func isRed(n *rbtNode) bool {
	return n != nil && n.red
}

// insertSuccessor вставляет значение сразу после node (nil - в самое начало).
func (t *rbt) insertSuccessor(node *rbtNode, value rbtNodeValue) {
	successor := &rbtNode{value: value, red: true}
	value.bindToNode(successor)

	switch {
	case node != nil:
		successor.previous, successor.next = node, node.next
		if node.next != nil {
			node.next.previous = successor
		}
		node.next = successor
		// в дереве преемник - самый левый в правом поддереве node
		if node.right != nil {
			first := t.getFirst(node.right)
			first.left = successor
			successor.parent = first
		} else {
			node.right = successor
			successor.parent = node
		}
	case t.root != nil:
		first := t.getFirst(t.root)
		successor.next = first
		first.previous = successor
		first.left = successor
		successor.parent = first
	default:
		t.root = successor
	}

	t.fixInsert(successor)
}

// fixInsert - балансировка после вставки красного узла
func (t *rbt) fixInsert(node *rbtNode) {
	for parent := node.parent; isRed(parent); parent = node.parent {
		grandpa := parent.parent
		s := parent.dirIn(grandpa)
		uncle := grandpa.child(s.flip())
		if isRed(uncle) {
			parent.red, uncle.red, grandpa.red = false, false, true
			node = grandpa
			continue
		}
		if node == parent.child(s.flip()) {
			t.rotate(parent, s)
			node, parent = parent, node
		}
		parent.red = false
		grandpa.red = true
		t.rotate(grandpa, s.flip())
	}
	t.root.red = false
}

func (t *rbt) removeNode(node *rbtNode) {
	t.unlink(node)

	parent, left, right := node.parent, node.left, node.right
	var next *rbtNode
	switch {
	case left == nil:
		next = right
	case right == nil:
		next = left
	default:
		next = t.getFirst(right)
	}
	t.replaceChild(node, next)

	var wasRed bool
	if left != nil && right != nil {
		wasRed = next.red
		next.red = node.red
		next.left = left
		left.parent = next
		if next != right {
			parent = next.parent
			next.parent = node.parent
			node = next.right
			parent.left = node
			next.right = right
			right.parent = next
		} else {
			next.parent = parent
			parent = next
			node = next.right
		}
	} else {
		wasRed = node.red
		node = next
	}
	if node != nil {
		node.parent = parent
	}
	if wasRed {
		return
	}
	if isRed(node) {
		node.red = false
		return
	}
	t.fixRemove(node, parent)
}

// fixRemove - удалили черный узел, node (может быть nil) под parent недобирает черной высоты
func (t *rbt) fixRemove(node, parent *rbtNode) {
	for node != t.root {
		s := toLeft
		if node != parent.left {
			s = toRight
		}
		sibling := parent.child(s.flip())
		if sibling.red {
			sibling.red = false
			parent.red = true
			t.rotate(parent, s)
			sibling = parent.child(s.flip())
		}
		if isRed(sibling.left) || isRed(sibling.right) {
			if !isRed(sibling.child(s.flip())) {
				sibling.child(s).red = false
				sibling.red = true
				t.rotate(sibling, s.flip())
				sibling = parent.child(s.flip())
			}
			sibling.red = parent.red
			parent.red = false
			sibling.child(s.flip()).red = false
			t.rotate(parent, s)
			node = t.root
			break
		}
		sibling.red = true
		node = parent
		parent = parent.parent
		if node.red {
			break
		}
	}
	if node != nil {
		node.red = false
	}
}

// unlink выкидывает узел из двусвязного списка
func (t *rbt) unlink(node *rbtNode) {
	if node.next != nil {
		node.next.previous = node.previous
	}
	if node.previous != nil {
		node.previous.next = node.next
	}
	node.next, node.previous = nil, nil
}

// replaceChild ставит c на место old у родителя old (или в корень).
// c.parent не трогает.
func (t *rbt) replaceChild(old, c *rbtNode) {
	parent := old.parent
	switch {
	case parent == nil:
		t.root = c
	case parent.left == old:
		parent.left = c
	default:
		parent.right = c
	}
}

// rotate опускает p в сторону s, на его место поднимается ребёнок с другой стороны.
func (t *rbt) rotate(p *rbtNode, s dir) {
	q := p.child(s.flip())
	t.replaceChild(p, q)
	q.parent = p.parent
	p.parent = q

	inner := q.child(s)
	p.setChild(s.flip(), inner)
	if inner != nil {
		inner.parent = p
	}
	q.setChild(s, p)
}

// getFirst - самый левый узел поддерева
func (t *rbt) getFirst(node *rbtNode) *rbtNode {
	for node.left != nil {
		node = node.left
	}
	return node
}

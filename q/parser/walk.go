package parser

// NodeFunc is a listener callback.
type NodeFunc func(n *Node)

// Listener is a table of optional enter and exit callbacks indexed by rule.
// Unset slots are skipped. The every-rule hooks run before the rule's own
// enter callback and after its own exit callback.
type Listener struct {
	enter      []NodeFunc
	exit       []NodeFunc
	enterEvery NodeFunc
	exitEvery  NodeFunc
}

func NewListener() *Listener {
	return &Listener{
		enter: make([]NodeFunc, NumRules()),
		exit:  make([]NodeFunc, NumRules()),
	}
}

// OnEnter sets the callback invoked before the children of rule nodes are
// walked.
func (l *Listener) OnEnter(rule Rule, fn NodeFunc) *Listener {
	l.grow(rule)
	l.enter[rule] = fn
	return l
}

// OnExit sets the callback invoked after the children of rule nodes were
// walked.
func (l *Listener) OnExit(rule Rule, fn NodeFunc) *Listener {
	l.grow(rule)
	l.exit[rule] = fn
	return l
}

func (l *Listener) OnEnterEvery(fn NodeFunc) *Listener {
	l.enterEvery = fn
	return l
}

func (l *Listener) OnExitEvery(fn NodeFunc) *Listener {
	l.exitEvery = fn
	return l
}

func (l *Listener) grow(rule Rule) {
	for int(rule) >= len(l.enter) {
		l.enter = append(l.enter, nil)
		l.exit = append(l.exit, nil)
	}
}

func (l *Listener) Enter(n *Node) {
	if l.enterEvery != nil {
		l.enterEvery(n)
	}
	if int(n.Rule) < len(l.enter) && l.enter[n.Rule] != nil {
		l.enter[n.Rule](n)
	}
}

func (l *Listener) Exit(n *Node) {
	if int(n.Rule) < len(l.exit) && l.exit[n.Rule] != nil {
		l.exit[n.Rule](n)
	}
	if l.exitEvery != nil {
		l.exitEvery(n)
	}
}

// Walker walks syntax trees depth first. A Walker may be reused but not
// shared between goroutines during a walk.
type Walker struct {
	depth int
}

// Depth returns the nesting depth of the node whose callback is running;
// the root is at depth 0.
func (w *Walker) Depth() int {
	return w.depth
}

// Walk calls l.Enter for n, walks its children in order and calls l.Exit.
// Terminal nodes invoke nothing.
func (w *Walker) Walk(l *Listener, n *Node) {
	if n == nil || n.IsTerminal() {
		return
	}
	l.Enter(n)
	w.depth++
	for _, child := range n.Children {
		w.Walk(l, child)
	}
	w.depth--
	l.Exit(n)
}

func Walk(l *Listener, n *Node) {
	new(Walker).Walk(l, n)
}

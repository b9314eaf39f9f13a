// Package tree implements a depth-bounded CART classifier over integer
// coded features using the Gini impurity criterion.
package tree

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// LeafFeature marks a node without a split.
const LeafFeature = -1

// minImpurityDecrease rejects splits that do not purify the node.
const minImpurityDecrease = 1e-12

var (
	ErrMalformedTree   = errors.New("MALFORMED_TREE")
	ErrFeatureMismatch = errors.New("FEATURE_MISMATCH")
	ErrInvalidDepth    = errors.New("INVALID_DEPTH")
	ErrInvalidLabels   = errors.New("INVALID_LABELS")
)

// Node is one decision or leaf. Rows whose feature value is <= Threshold
// go Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Class     int     `json:"class"`
	Samples   int     `json:"samples"`
	Impurity  float64 `json:"impurity"`
	Counts    []int   `json:"counts,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

func (n *Node) IsLeaf() bool {
	return n.Feature == LeafFeature
}

// Classifier is immutable after Fit and safe for concurrent Predict calls.
type Classifier struct {
	MaxDepth    int   `json:"maxDepth"`
	NumFeatures int   `json:"numFeatures"`
	NumClasses  int   `json:"numClasses"`
	Root        *Node `json:"root"`
}

func New(maxDepth int) *Classifier {
	return &Classifier{MaxDepth: maxDepth}
}

// Fit grows the tree on X (rows × features) and labels y in [0, numClasses).
// Ties between equally good splits go to the lower feature index and the
// lower threshold; ties between classes in a leaf go to the lower code.
func (c *Classifier) Fit(X mat.Matrix, y []int, numClasses int) error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be >= 1, got %d", ErrInvalidDepth, c.MaxDepth)
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidLabels)
	}
	if rows != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrInvalidLabels, rows, len(y))
	}
	if numClasses < 1 {
		return fmt.Errorf("%w: class count must be >= 1", ErrInvalidLabels)
	}
	for i, label := range y {
		if label < 0 || label >= numClasses {
			return fmt.Errorf("%w: label %d at row %d not in [0, %d)", ErrInvalidLabels, label, i, numClasses)
		}
	}

	b := &builder{x: X, y: y, cols: cols, numClasses: numClasses, maxDepth: c.MaxDepth}
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}

	c.NumFeatures = cols
	c.NumClasses = numClasses
	c.Root = b.grow(idx, 0)
	return nil
}

// Predict returns the class code for one feature row.
func (c *Classifier) Predict(features []int) (int, error) {
	if len(features) != c.NumFeatures {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(features), c.NumFeatures)
	}
	node := c.Root
	for steps := 0; ; steps++ {
		if node == nil {
			return 0, fmt.Errorf("%w: nil node on decision path", ErrMalformedTree)
		}
		if steps > c.MaxDepth {
			return 0, fmt.Errorf("%w: path longer than max depth %d", ErrMalformedTree, c.MaxDepth)
		}
		if node.IsLeaf() {
			return node.Class, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0, fmt.Errorf("%w: split on feature %d", ErrMalformedTree, node.Feature)
		}
		if float64(features[node.Feature]) <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
}

// PredictMatrix predicts every row of X.
func (c *Classifier) PredictMatrix(X mat.Matrix) ([]int, error) {
	rows, cols := X.Dims()
	out := make([]int, rows)
	row := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = int(X.At(i, j))
		}
		class, err := c.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = class
	}
	return out, nil
}

// Depth is the number of splits on the longest root-to-leaf path.
func (c *Classifier) Depth() int {
	return depth(c.Root)
}

func (c *Classifier) Leaves() int {
	return leaves(c.Root)
}

// Verify checks the structure of a tree that did not come from Fit, such
// as one decoded from a bundle.
func (c *Classifier) Verify() error {
	if c.NumFeatures < 1 || c.NumClasses < 1 {
		return fmt.Errorf("%w: %d features, %d classes", ErrMalformedTree, c.NumFeatures, c.NumClasses)
	}
	return c.verify(c.Root, 0)
}

func (c *Classifier) verify(n *Node, level int) error {
	if n == nil {
		return fmt.Errorf("%w: missing node at depth %d", ErrMalformedTree, level)
	}
	if level > c.MaxDepth {
		return fmt.Errorf("%w: node at depth %d exceeds max depth %d", ErrMalformedTree, level, c.MaxDepth)
	}
	if n.IsLeaf() {
		if n.Class < 0 || n.Class >= c.NumClasses {
			return fmt.Errorf("%w: leaf class %d not in [0, %d)", ErrMalformedTree, n.Class, c.NumClasses)
		}
		return nil
	}
	if n.Feature < 0 || n.Feature >= c.NumFeatures {
		return fmt.Errorf("%w: split feature %d not in [0, %d)", ErrMalformedTree, n.Feature, c.NumFeatures)
	}
	if err := c.verify(n.Left, level+1); err != nil {
		return err
	}
	return c.verify(n.Right, level+1)
}

func depth(n *Node) int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	l, r := depth(n.Left), depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func leaves(n *Node) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return leaves(n.Left) + leaves(n.Right)
}

type builder struct {
	x          mat.Matrix
	y          []int
	cols       int
	numClasses int
	maxDepth   int
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

func (b *builder) grow(idx []int, level int) *Node {
	counts := b.counts(idx)
	node := &Node{
		Feature:  LeafFeature,
		Class:    argmax(counts),
		Samples:  len(idx),
		Impurity: gini(counts, len(idx)),
		Counts:   counts,
	}
	if level >= b.maxDepth || node.Impurity == 0 || len(idx) < 2 {
		return node
	}

	best, ok := b.bestSplit(idx)
	if !ok || node.Impurity-best.impurity < minImpurityDecrease {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if b.x.At(i, best.feature) <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = b.grow(left, level+1)
	node.Right = b.grow(right, level+1)
	return node
}

type sample struct {
	value float64
	label int
}

// bestSplit sweeps every boundary between distinct values of every feature
// and returns the split with the lowest weighted child impurity.
func (b *builder) bestSplit(idx []int) (split, bool) {
	n := len(idx)
	best := split{impurity: 2}
	found := false

	samples := make([]sample, n)
	for f := 0; f < b.cols; f++ {
		for k, i := range idx {
			samples[k] = sample{value: b.x.At(i, f), label: b.y[i]}
		}
		sort.SliceStable(samples, func(a, c int) bool { return samples[a].value < samples[c].value })

		left := make([]int, b.numClasses)
		right := make([]int, b.numClasses)
		for _, s := range samples {
			right[s.label]++
		}

		for k := 0; k < n-1; k++ {
			left[samples[k].label]++
			right[samples[k].label]--
			if samples[k].value == samples[k+1].value {
				continue
			}
			nl, nr := k+1, n-k-1
			imp := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if imp < best.impurity-minImpurityDecrease {
				best = split{
					feature:   f,
					threshold: (samples[k].value + samples[k+1].value) / 2,
					impurity:  imp,
				}
				found = true
			}
		}
	}
	return best, found
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

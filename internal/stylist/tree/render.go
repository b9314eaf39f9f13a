package tree

import (
	"fmt"
	"io"
	"strings"
)

// Labels names features, their coded values and classes for Render. Any
// missing name falls back to its index.
type Labels struct {
	Features []string
	Values   [][]string
	Classes  []string
}

// Render writes an indented text view of the decision procedure:
//
//	|--- Weather in [Cold Hot]
//	|   |--- class: Hoodie + Jeans
func (c *Classifier) Render(w io.Writer, labels Labels) error {
	if c.Root == nil {
		_, err := fmt.Fprintln(w, "(untrained)")
		return err
	}
	return render(w, c.Root, labels, 0)
}

func render(w io.Writer, n *Node, labels Labels, level int) error {
	indent := strings.Repeat("|   ", level) + "|--- "
	if n.IsLeaf() {
		_, err := fmt.Fprintf(w, "%sclass: %s (samples=%d)\n", indent, labels.class(n.Class), n.Samples)
		return err
	}

	left, right := labels.condition(n.Feature, n.Threshold)
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, left); err != nil {
		return err
	}
	if err := render(w, n.Left, labels, level+1); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, right); err != nil {
		return err
	}
	return render(w, n.Right, labels, level+1)
}

func (l Labels) feature(i int) string {
	if i < len(l.Features) {
		return l.Features[i]
	}
	return fmt.Sprintf("feature_%d", i)
}

func (l Labels) class(i int) string {
	if i >= 0 && i < len(l.Classes) {
		return l.Classes[i]
	}
	return fmt.Sprintf("%d", i)
}

func (l Labels) condition(feature int, threshold float64) (string, string) {
	name := l.feature(feature)
	if feature < len(l.Values) && len(l.Values[feature]) > 0 {
		var lo, hi []string
		for code, v := range l.Values[feature] {
			if float64(code) <= threshold {
				lo = append(lo, v)
			} else {
				hi = append(hi, v)
			}
		}
		return fmt.Sprintf("%s in [%s]", name, strings.Join(lo, " ")),
			fmt.Sprintf("%s in [%s]", name, strings.Join(hi, " "))
	}
	return fmt.Sprintf("%s <= %.2f", name, threshold), fmt.Sprintf("%s >  %.2f", name, threshold)
}

package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Print writes a human-readable listing of m to w.
func (m *Model) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "model %q (%s): %d layers, size %d\n", m.Name, m.Version, len(m.Layers), m.Size())
	for i, l := range m.Layers {
		fmt.Fprintf(bw, "layer %d: %s, %d outputs", i, l.Type, l.Size())
		if len(l.Nodes) > 0 {
			fmt.Fprintf(bw, ", %d nodes", len(l.Nodes))
		}
		bw.WriteByte('\n')
		if l.Type != LayerTreePath {
			for k, o := range l.Outputs {
				if len(o.Inputs) == 0 && o.Value == 0 {
					continue
				}
				fmt.Fprintf(bw, "  [%d] value=%g inputs=%s\n", k, o.Value, coords(o.Inputs))
			}
		}
		for j, n := range l.Nodes {
			fmt.Fprintf(bw, "  node %d: input=(%d,%d) threshold=%g left=%d right=%d\n",
				j, n.Input.Layer, n.Input.Element, n.Threshold, n.Left, n.Right)
		}
	}
	return bw.Flush()
}

func coords(cs []Coordinate) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("(%d,%d)", c.Layer, c.Element)
	}
	return strings.Join(parts, " ")
}

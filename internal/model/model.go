package model

import (
	"encoding/xml"
	"fmt"
)

// Version1 is the only document version written and accepted.
const Version1 = "model.v1"

// LayerType selects how a layer computes its outputs.
type LayerType string

const (
	// LayerZero holds the model input when first, zeros otherwise.
	LayerZero     LayerType = "zero"
	LayerScale    LayerType = "scale"
	LayerShift    LayerType = "shift"
	LayerSum      LayerType = "sum"
	LayerTreePath LayerType = "decisionTreePath"
)

// Coordinate addresses one output element of an earlier layer.
type Coordinate struct {
	Layer   int `json:"layer" xml:"layer,attr" yaml:"layer" toml:"layer"`
	Element int `json:"element" xml:"element,attr" yaml:"element" toml:"element"`
}

// Output is one element of a layer. Value is the scale factor or shift
// offset; Inputs lists the coordinates it reads.
type Output struct {
	Value  float64      `json:"value" xml:"value,attr" yaml:"value" toml:"value"`
	Inputs []Coordinate `json:"inputs,omitempty" xml:"input" yaml:"inputs,omitempty" toml:"inputs,omitempty"`
}

// SplitNode is an interior node of a decision tree path layer. The node
// takes its Right edge when the input exceeds Threshold. -1 marks a leaf.
type SplitNode struct {
	Input     Coordinate `json:"input" xml:"input" yaml:"input" toml:"input"`
	Threshold float64    `json:"threshold" xml:"threshold,attr" yaml:"threshold" toml:"threshold"`
	Left      int        `json:"left" xml:"left,attr" yaml:"left" toml:"left"`
	Right     int        `json:"right" xml:"right,attr" yaml:"right" toml:"right"`
}

// Layer is a vector-valued stage of a model.
type Layer struct {
	Type    LayerType   `json:"type" xml:"type,attr" yaml:"type" toml:"type"`
	Outputs []Output    `json:"outputs" xml:"output" yaml:"outputs" toml:"outputs"`
	Nodes   []SplitNode `json:"nodes,omitempty" xml:"node" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
}

// Size returns the number of output elements of the layer.
func (l Layer) Size() int { return len(l.Outputs) }

// Model is an ordered stack of layers. Layer 0 is the input layer.
type Model struct {
	XMLName xml.Name `json:"-" yaml:"-" toml:"-" xml:"model"`
	Version string   `json:"version" xml:"version,attr" yaml:"version" toml:"version"`
	Name    string   `json:"name" xml:"name,attr" yaml:"name" toml:"name"`
	Layers  []Layer  `json:"layers" xml:"layer" yaml:"layers" toml:"layers"`
}

// Size returns the total number of output elements across all layers.
func (m *Model) Size() int {
	n := 0
	for _, l := range m.Layers {
		n += l.Size()
	}
	return n
}

// Validate checks the structural invariants Compute relies on.
func (m *Model) Validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("model %q has no layers", m.Name)
	}
	if m.Layers[0].Type != LayerZero {
		return fmt.Errorf("model %q: layer 0 is %s, want %s", m.Name, m.Layers[0].Type, LayerZero)
	}
	for i, l := range m.Layers {
		switch l.Type {
		case LayerZero, LayerSum:
		case LayerScale, LayerShift:
			for k, o := range l.Outputs {
				if len(o.Inputs) != 1 {
					return fmt.Errorf("layer %d output %d: %s needs exactly one input, got %d", i, k, l.Type, len(o.Inputs))
				}
			}
		case LayerTreePath:
			if len(l.Outputs) != 2*len(l.Nodes) {
				return fmt.Errorf("layer %d: tree with %d nodes needs %d outputs, got %d", i, len(l.Nodes), 2*len(l.Nodes), len(l.Outputs))
			}
			for j, n := range l.Nodes {
				if n.Left >= len(l.Nodes) || n.Right >= len(l.Nodes) {
					return fmt.Errorf("layer %d node %d: child out of range", i, j)
				}
			}
		default:
			return fmt.Errorf("layer %d: unknown layer type %q", i, l.Type)
		}
		for k, o := range l.Outputs {
			for _, c := range o.Inputs {
				if c.Layer < 0 || c.Layer >= i {
					return fmt.Errorf("layer %d output %d: input layer %d is not an earlier layer", i, k, c.Layer)
				}
			}
		}
		for j, n := range l.Nodes {
			if n.Input.Layer < 0 || n.Input.Layer >= i {
				return fmt.Errorf("layer %d node %d: input layer %d is not an earlier layer", i, j, n.Input.Layer)
			}
		}
	}
	return nil
}

// Compute evaluates the model on input and returns the output of the last layer.
func (m *Model) Compute(input []float64) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(input) != m.Layers[0].Size() {
		return nil, fmt.Errorf("input has %d elements, model %q expects %d", len(input), m.Name, m.Layers[0].Size())
	}
	outs := make([][]float64, len(m.Layers))
	outs[0] = append([]float64(nil), input...)
	for i := 1; i < len(m.Layers); i++ {
		l := m.Layers[i]
		vals := make([]float64, len(l.Outputs))
		switch l.Type {
		case LayerScale, LayerShift:
			for k, o := range l.Outputs {
				v, err := lookup(outs, o.Inputs[0])
				if err != nil {
					return nil, fmt.Errorf("layer %d: %w", i, err)
				}
				if l.Type == LayerScale {
					vals[k] = o.Value * v
				} else {
					vals[k] = o.Value + v
				}
			}
		case LayerSum:
			for k, o := range l.Outputs {
				for _, c := range o.Inputs {
					v, err := lookup(outs, c)
					if err != nil {
						return nil, fmt.Errorf("layer %d: %w", i, err)
					}
					vals[k] += v
				}
			}
		case LayerTreePath:
			if err := treePath(l, outs, vals); err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
		}
		outs[i] = vals
	}
	return outs[len(outs)-1], nil
}

func lookup(outs [][]float64, c Coordinate) (float64, error) {
	if c.Element < 0 || c.Element >= len(outs[c.Layer]) {
		return 0, fmt.Errorf("coordinate (%d,%d) out of range", c.Layer, c.Element)
	}
	return outs[c.Layer][c.Element], nil
}

// treePath sets the edge indicator for every edge on the root-to-leaf path.
// Edge 2i is node i's left edge, 2i+1 its right edge.
func treePath(l Layer, outs [][]float64, vals []float64) error {
	node := 0
	for steps := 0; node >= 0 && node < len(l.Nodes); steps++ {
		if steps >= len(l.Nodes) {
			return fmt.Errorf("tree has a cycle")
		}
		n := l.Nodes[node]
		v, err := lookup(outs, n.Input)
		if err != nil {
			return err
		}
		if v > n.Threshold {
			vals[2*node+1] = 1
			node = n.Right
		} else {
			vals[2*node] = 1
			node = n.Left
		}
	}
	return nil
}

package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// sampleInputSize is the input width of every sample model.
const sampleInputSize = 3

// maxSampleParam bounds N in "[N]" and "[tree_N]".
const maxSampleParam = 1024

var sampleKeyRe = regexp.MustCompile(`^\[(tree_)?(\d+)\]$`)

// IsSampleKey reports whether key uses the bracketed sample syntax.
func IsSampleKey(key string) bool {
	return len(key) >= 2 && key[0] == '[' && key[len(key)-1] == ']'
}

// Sample builds the built-in model for a bracketed key:
//
//	[N]       linear model, N scale/shift stages over a 3-wide input, then a sum
//	[tree_N]  3-wide input followed by a decision tree path with N interior nodes
func Sample(key string) (*Model, error) {
	m := sampleKeyRe.FindStringSubmatch(key)
	if m == nil {
		return nil, ErrNotFound(key)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, ErrNotFound(key)
	}
	if n > maxSampleParam {
		return nil, ErrProvider(fmt.Sprintf("sample %s exceeds limit %d", key, maxSampleParam), nil)
	}
	if m[1] != "" {
		return treeSample(key, n), nil
	}
	if n == 0 {
		return nil, ErrNotFound(key)
	}
	return linearSample(key, n), nil
}

func inputLayer() Layer {
	return Layer{Type: LayerZero, Outputs: make([]Output, sampleInputSize)}
}

func linearSample(name string, stages int) *Model {
	m := &Model{Version: Version1, Name: name, Layers: []Layer{inputLayer()}}
	for s := 0; s < stages; s++ {
		prev := len(m.Layers) - 1
		scale := Layer{Type: LayerScale}
		for k := 0; k < sampleInputSize; k++ {
			scale.Outputs = append(scale.Outputs, Output{
				Value:  0.5 * float64(s+k+1),
				Inputs: []Coordinate{{Layer: prev, Element: k}},
			})
		}
		m.Layers = append(m.Layers, scale)
		shift := Layer{Type: LayerShift}
		for k := 0; k < sampleInputSize; k++ {
			shift.Outputs = append(shift.Outputs, Output{
				Value:  float64(k - s),
				Inputs: []Coordinate{{Layer: prev + 1, Element: k}},
			})
		}
		m.Layers = append(m.Layers, shift)
	}
	last := len(m.Layers) - 1
	sum := Output{}
	for k := 0; k < sampleInputSize; k++ {
		sum.Inputs = append(sum.Inputs, Coordinate{Layer: last, Element: k})
	}
	m.Layers = append(m.Layers, Layer{Type: LayerSum, Outputs: []Output{sum}})
	return m
}

// treeSample lays nodes out as a binary heap: node i has children 2i+1 and 2i+2.
func treeSample(name string, nodes int) *Model {
	tree := Layer{Type: LayerTreePath, Outputs: make([]Output, 2*nodes)}
	for i := 0; i < nodes; i++ {
		n := SplitNode{
			Input:     Coordinate{Layer: 0, Element: i % sampleInputSize},
			Threshold: 0.25 * float64(i%4+1),
			Left:      -1,
			Right:     -1,
		}
		if c := 2*i + 1; c < nodes {
			n.Left = c
		}
		if c := 2*i + 2; c < nodes {
			n.Right = c
		}
		tree.Nodes = append(tree.Nodes, n)
	}
	return &Model{Version: Version1, Name: name, Layers: []Layer{inputLayer(), tree}}
}

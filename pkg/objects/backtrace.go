package objects

// BacktraceGraph is shared by target and directory files. Backtrace members
// elsewhere in the same file are indices into Nodes.
type BacktraceGraph struct {
	Nodes    []BacktraceNode `json:"nodes"`
	Commands []string        `json:"commands"`
	Files    []string        `json:"files"`
}

type BacktraceNode struct {
	File    int  `json:"file"`
	Line    *int `json:"line,omitempty"`
	Command *int `json:"command,omitempty"`
	Parent  *int `json:"parent,omitempty"`
}

// Frame is one resolved entry of a backtrace. Line is 0 and Command is empty
// when the node does not carry them.
type Frame struct {
	File    string
	Line    int
	Command string
}

// Frames walks the parent chain starting at node, innermost first. The walk
// stops at the first index that is out of range, and at a revisited node.
func (g *BacktraceGraph) Frames(node int) []Frame {
	var frames []Frame
	seen := make(map[int]bool)
	for node >= 0 && node < len(g.Nodes) && !seen[node] {
		seen[node] = true
		n := g.Nodes[node]

		var f Frame
		if n.File >= 0 && n.File < len(g.Files) {
			f.File = g.Files[n.File]
		}
		if n.Line != nil {
			f.Line = *n.Line
		}
		if n.Command != nil && *n.Command >= 0 && *n.Command < len(g.Commands) {
			f.Command = g.Commands[*n.Command]
		}
		frames = append(frames, f)

		if n.Parent == nil {
			break
		}
		node = *n.Parent
	}
	return frames
}

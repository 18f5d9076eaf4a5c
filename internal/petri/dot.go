package petri

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT renders the net in Graphviz DOT syntax. Places holding tokens in
// marking are annotated with their count; marking may be nil.
func WriteDOT(w io.Writer, n *Net, marking Marking) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %s {\n", strconv.Quote(n.Name))
	fmt.Fprintln(bw, "\trankdir=LR;")

	for _, p := range n.Places {
		label := ""
		if tokens := marking[p.Name]; tokens > 0 {
			label = strconv.Itoa(tokens)
		}
		fmt.Fprintf(bw, "\t%s [shape=circle,label=%s,xlabel=%s];\n",
			strconv.Quote(p.Name), strconv.Quote(label), strconv.Quote(p.Name))
	}
	for _, t := range n.Transitions {
		if t.Silent() {
			fmt.Fprintf(bw, "\t%s [shape=box,style=filled,fillcolor=black,label=\"\",width=0.2];\n",
				strconv.Quote(t.Name))
			continue
		}
		fmt.Fprintf(bw, "\t%s [shape=box,label=%s];\n", strconv.Quote(t.Name), strconv.Quote(t.Label))
	}
	for _, a := range n.Arcs {
		if a.Weight > 1 {
			fmt.Fprintf(bw, "\t%s -> %s [label=\"%d\"];\n", strconv.Quote(a.From), strconv.Quote(a.To), a.Weight)
			continue
		}
		fmt.Fprintf(bw, "\t%s -> %s;\n", strconv.Quote(a.From), strconv.Quote(a.To))
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

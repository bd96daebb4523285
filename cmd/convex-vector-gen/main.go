// Command convex-vector-gen builds a vector cell of sequential Long
// elements and writes its full multi-cell encoding to stdout (or a file),
// for exercising the 16-way VectorLeaf/VectorTree trie with fixtures larger
// than hand-written test literals.
package main

import (
	"flag"
	"fmt"
	"os"

	"convex.dev/convex/cell"
	"convex.dev/convex/multicell"
)

func main() {
	var count int
	var start int64
	var outPath string
	fs := flag.NewFlagSet("convex-vector-gen", flag.ExitOnError)
	fs.IntVar(&count, "count", 17, "number of elements")
	fs.Int64Var(&start, "start", 0, "first element's value; elements are start, start+1, ...")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	_ = fs.Parse(os.Args[1:])

	if count < 0 {
		fmt.Fprintln(os.Stderr, "--count must be >= 0")
		os.Exit(2)
	}

	elements := make([]*cell.Ref, count)
	for i := 0; i < count; i++ {
		elements[i] = cell.NewDirect(cell.Long(start + int64(i)))
	}
	root := cell.NewVector(elements)
	v, _ := root.Value()

	buf := multicell.EncodeMultiCell(v, true)

	if outPath == "" {
		if _, err := os.Stdout.Write(buf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

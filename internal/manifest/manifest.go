// Package manifest renders the set of changed output paths as an indented
// tree for human review of what a run exported.
package manifest

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	connector    = "├─ "
	continuation = "│  "
)

type node struct {
	dirs  map[string]*node
	files map[string]struct{}
}

func newNode() *node {
	return &node{dirs: map[string]*node{}, files: map[string]struct{}{}}
}

func (n *node) insert(segments []string) {
	if len(segments) == 0 {
		return
	}
	if len(segments) == 1 {
		n.files[segments[0]] = struct{}{}
		return
	}
	child, ok := n.dirs[segments[0]]
	if !ok {
		child = newNode()
		n.dirs[segments[0]] = child
	}
	child.insert(segments[1:])
}

// Render builds a directory tree from the given slash-separated relative
// paths and renders it depth-first. At every level subdirectories come
// first, then files, both ordered case-insensitively with numeric-aware
// comparison ("file2" before "file10"); duplicate file names collapse. The
// root renders as a single "." line.
func Render(paths []string) string {
	root := newNode()
	for _, p := range paths {
		p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
		if p == "" || p == "." {
			continue
		}
		var segments []string
		for _, seg := range strings.Split(p, "/") {
			if seg != "" && seg != "." {
				segments = append(segments, seg)
			}
		}
		root.insert(segments)
	}

	cl := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)

	var b strings.Builder
	b.WriteString(".\n")
	renderNode(&b, root, 0, cl)
	return b.String()
}

func renderNode(b *strings.Builder, n *node, depth int, cl *collate.Collator) {
	dirNames := make([]string, 0, len(n.dirs))
	for name := range n.dirs {
		dirNames = append(dirNames, name)
	}
	sortNames(dirNames, cl)

	fileNames := make([]string, 0, len(n.files))
	for name := range n.files {
		fileNames = append(fileNames, name)
	}
	sortNames(fileNames, cl)

	for _, name := range dirNames {
		writeLine(b, depth, name)
		renderNode(b, n.dirs[name], depth+1, cl)
	}
	for _, name := range fileNames {
		writeLine(b, depth, name)
	}
}

func sortNames(names []string, cl *collate.Collator) {
	sort.Slice(names, func(i, j int) bool {
		if cmp := cl.CompareString(names[i], names[j]); cmp != 0 {
			return cmp < 0
		}
		// Collator ties (case-only differences) fall back to byte order so
		// the output stays deterministic.
		return names[i] < names[j]
	})
}

func writeLine(b *strings.Builder, depth int, name string) {
	for i := 0; i < depth; i++ {
		b.WriteString(continuation)
	}
	b.WriteString(connector)
	b.WriteString(name)
	b.WriteByte('\n')
}

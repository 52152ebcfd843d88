// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ninja is a stateless textual serializer for the Ninja build-graph
// format: rules, build edges, bindings, comments, and subninja includes.
//
// Unlike a general-purpose Ninja file generator, this writer never
// interprets the strings it is given — no variable scoping, no expression
// parsing, no package-qualified names. Every value passed in is a literal
// path or literal command string, because by the time a build graph reaches
// this package all variable interpolation has already happened upstream.
// The writer's only job is byte-for-byte deterministic formatting.
package ninja

import (
	"io"
	"strings"
	"unicode"
)

const (
	indentWidth    = 4
	maxIndentDepth = 2
	lineWidth      = 80
)

var indentString = strings.Repeat(" ", indentWidth*maxIndentDepth)

// stringWriterWriter is the subset of *bufio.Writer / bytes.Buffer this
// writer needs.
type stringWriterWriter interface {
	io.StringWriter
}

// lowWriter is the line-formatting layer: it knows how to wrap long build
// statements with trailing "$\n" continuations and how to fold long
// comments, but nothing about what a build graph means.
type lowWriter struct {
	w                stringWriterWriter
	justDidBlankLine bool
}

func newLowWriter(w stringWriterWriter) *lowWriter {
	return &lowWriter{w: w}
}

func (n *lowWriter) Comment(comment string) error {
	n.justDidBlankLine = false

	const lineHeaderLen = len("# ")
	const maxLineLen = lineWidth - lineHeaderLen

	var lineStart, lastSplitPoint int
	for i, r := range comment {
		if unicode.IsSpace(r) {
			lastSplitPoint = i + 1
		}

		var line string
		var writeLine bool
		switch {
		case r == '\n':
			line = strings.TrimRightFunc(comment[lineStart:i], unicode.IsSpace)
			writeLine = true
		case (i-lineStart > maxLineLen) && (lastSplitPoint > lineStart):
			line = strings.TrimSpace(comment[lineStart:lastSplitPoint])
			writeLine = true
		}

		if writeLine {
			line = strings.TrimSpace("# "+line) + "\n"
			if _, err := n.w.WriteString(line); err != nil {
				return err
			}
			lineStart = lastSplitPoint
		}
	}

	if lineStart != len(comment) {
		line := strings.TrimSpace(comment[lineStart:])
		if _, err := n.w.WriteString("# "); err != nil {
			return err
		}
		if _, err := n.w.WriteString(line); err != nil {
			return err
		}
		if _, err := n.w.WriteString("\n"); err != nil {
			return err
		}
	}

	return nil
}

func (n *lowWriter) Rule(name string) error {
	n.justDidBlankLine = false
	return n.writeStatement("rule", name)
}

func (n *lowWriter) Subninja(file string) error {
	n.justDidBlankLine = false
	return n.writeStatement("subninja", file)
}

// Build writes one `build OUT... | IMPLICIT_OUT...: RULE IN... | IDEP... ||
// ODEP...` statement, wrapping at lineWidth with `$`-continuations exactly
// as the downstream executor expects.
func (n *lowWriter) Build(comment, rule string, outputs, implicitOuts, explicitDeps, implicitDeps, orderOnlyDeps []string) error {
	n.justDidBlankLine = false

	const lineWrapLen = len(" $")
	const maxLineLen = lineWidth - lineWrapLen

	wrapper := &wrappingWriter{lowWriter: n, maxLineLen: maxLineLen}

	if comment != "" {
		if err := wrapper.Comment(comment); err != nil {
			return err
		}
	}

	wrapper.writeString("build", false)

	for _, output := range outputs {
		wrapper.writeString(output, true)
	}

	if len(implicitOuts) > 0 {
		wrapper.writeString("|", true)
		for _, out := range implicitOuts {
			wrapper.writeString(out, true)
		}
	}

	wrapper.writeString(":", false)
	wrapper.writeString(rule, true)

	for _, dep := range explicitDeps {
		wrapper.writeString(dep, true)
	}

	if len(implicitDeps) > 0 {
		wrapper.writeString("|", true)
		for _, dep := range implicitDeps {
			wrapper.writeString(dep, true)
		}
	}

	if len(orderOnlyDeps) > 0 {
		wrapper.writeString("||", true)
		for _, dep := range orderOnlyDeps {
			wrapper.writeString(dep, true)
		}
	}

	return wrapper.Flush()
}

func (n *lowWriter) Assign(name, value string) error {
	n.justDidBlankLine = false
	if _, err := n.w.WriteString(name); err != nil {
		return err
	}
	if _, err := n.w.WriteString(" = "); err != nil {
		return err
	}
	if _, err := n.w.WriteString(value); err != nil {
		return err
	}
	_, err := n.w.WriteString("\n")
	return err
}

func (n *lowWriter) ScopedAssign(name, value string) error {
	n.justDidBlankLine = false
	if _, err := n.w.WriteString(indentString[:indentWidth]); err != nil {
		return err
	}
	if _, err := n.w.WriteString(name); err != nil {
		return err
	}
	if _, err := n.w.WriteString(" = "); err != nil {
		return err
	}
	if _, err := n.w.WriteString(value); err != nil {
		return err
	}
	_, err := n.w.WriteString("\n")
	return err
}

func (n *lowWriter) BlankLine() error {
	if n.justDidBlankLine {
		return nil
	}
	n.justDidBlankLine = true
	_, err := n.w.WriteString("\n")
	return err
}

func (n *lowWriter) writeStatement(directive, name string) error {
	if _, err := n.w.WriteString(directive + " "); err != nil {
		return err
	}
	if _, err := n.w.WriteString(name); err != nil {
		return err
	}
	_, err := n.w.WriteString("\n")
	return err
}

// wrappingWriter accumulates a single logical statement, inserting
// "$\n"-continuations once the current line grows past maxLineLen.
type wrappingWriter struct {
	*lowWriter
	maxLineLen int
	writtenLen int
	err        error
}

func (n *wrappingWriter) writeString(s string, withLeadingSpace bool) {
	if n.err != nil {
		return
	}

	spaceLen := 0
	if withLeadingSpace {
		spaceLen = 1
	}

	if n.writtenLen+len(s)+spaceLen > n.maxLineLen {
		if _, n.err = n.w.WriteString(" $\n"); n.err != nil {
			return
		}
		if _, n.err = n.w.WriteString(indentString[:indentWidth*2]); n.err != nil {
			return
		}
		n.writtenLen = indentWidth * 2
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	} else if withLeadingSpace {
		if _, n.err = n.w.WriteString(" "); n.err != nil {
			return
		}
		n.writtenLen++
	}

	_, n.err = n.w.WriteString(s)
	n.writtenLen += len(s)
}

func (n *wrappingWriter) Flush() error {
	if n.err != nil {
		return n.err
	}
	_, err := n.w.WriteString("\n")
	return err
}

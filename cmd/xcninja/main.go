// Command xcninja drives the link resolver and build-graph emitter over a
// YAML project fixture, for exercising the planner outside of a full Xcode
// project reader.
package main

import "github.com/jdm7dv/xcbuild/cmd/xcninja/internal"

func main() {
	internal.Execute()
}

// Command framesim runs the example models of the framesim engine.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/framesim/framesim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}

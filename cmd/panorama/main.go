package main

import (
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-pano/internal/cli"
)

// GLFW and the GPU surface must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

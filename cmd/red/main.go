// Command red is a standalone entry point for the red line editor.
package main

import (
	"os"

	"github.com/rcarmo/go-red/pkg/applets/red"
	"github.com/rcarmo/go-red/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(red.Run(stdio, os.Args[1:]))
}

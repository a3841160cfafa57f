package main

import (
	"testing"
)

func TestCLIVersion(t *testing.T) {
	e := newExecutor(t)
	e.Run(t, "utreexo-go", "--version")
	e.checkNextLine(t, "^utreexo-go$")
	e.checkNextLine(t, "^Version: ")
	e.checkNextLine(t, "^GoVersion: go")
	e.checkEOF(t)
}

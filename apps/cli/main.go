package main

import "github.com/ACCIDENTPROJECT/NoTraceEdit/apps/cli/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}

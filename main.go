package main

import "github.com/squad-ai/squadctl/cmd"

// Set at release time:
// go build -ldflags "-X main.version=0.2.0 -X main.commit=abc1234 -X main.date=2026-08-28"
var (
	version = "0.2.0"
	commit  = ""
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}

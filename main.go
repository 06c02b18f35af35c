package main

import "github.com/user/soc-triage/cmd"

func main() {
	cmd.Execute()
}

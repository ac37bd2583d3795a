package main

import "github.com/cmmoran/buildergen/cmd"

func main() {
	cmd.Execute()
}

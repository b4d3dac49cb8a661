package main

import "github.com/ieee-cs-bmsit/soc-insights/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/theirongolddev/taxalpha/cmd"

func main() {
	cmd.Execute()
}

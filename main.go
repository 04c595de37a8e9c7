package main

import "github.com/tristendillon/assetpipe/cmd"

func main() {
	cmd.Execute()
}

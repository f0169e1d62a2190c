package main

import (
	"feedmix/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/mattco98/gcverify/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/soapywu/pbxsync/cmd"
)

func main() {
	cmd.Execute()
}

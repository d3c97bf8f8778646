package main

import (
	"os"

	"github.com/ezerfernandes/mdinclude/internal/cmd"
)

func main() {
	cmd.Execute(os.Args[1:], os.Stdout, os.Stderr)
}

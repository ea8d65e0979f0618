package main

import (
	"github.com/NVIDIA/early-boot-config/pkg/cli"
)

func main() {
	cli.Execute()
}

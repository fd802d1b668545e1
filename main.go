package main

import (
	"context"

	"github.com/cube2222/shaclplan/cmd"
)

func main() {
	cmd.Execute(context.Background())
}

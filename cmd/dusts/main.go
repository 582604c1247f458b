package main

import "github.com/cloudfoundry/dusts/internal/cmd"

func main() {
	cmd.Execute()
}

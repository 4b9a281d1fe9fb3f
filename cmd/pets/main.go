// Command pets manages a local pet catalog.
package main

import "github.com/mesh-intelligence/pets/internal/cli"

func main() {
	cli.Execute()
}

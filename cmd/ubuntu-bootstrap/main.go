package main

import "github.com/oshokin/ubuntu-bootstrap/cmd/ubuntu-bootstrap/cmd"

func main() {
	cmd.Execute()
}

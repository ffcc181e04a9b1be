package main

import "github.com/frahmantamala/people-console/cmd"

func main() {
	cmd.Execute()
}

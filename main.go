package main

import "voltmesh/mend/cmd"

func main() {
	cmd.Execute()
}

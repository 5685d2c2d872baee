package main

import "github.com/aegisops/guardops/cmd"

func main() {
	cmd.Execute()
}

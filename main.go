package main

import "github.com/frahmantamala/performance-dashboard/cmd"

func main() {
	cmd.Execute()
}

// Command featuremap is a terminal dashboard for release history.
package main

import "github.com/papapumpkin/featuremap/cmd"

func main() {
	cmd.Execute()
}

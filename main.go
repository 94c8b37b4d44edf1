/* main.go
 * Entry point of the toornament-stats command. For details about the commands see `readme.md`
 * Usage: go run . --tournament <name> update all
 */

package main

import "toornament-stats/cmd"

func main() {
	cmd.Execute()
}

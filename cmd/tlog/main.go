// Command tlog is a personal activity tracker: daily topic windows, notes,
// problems and periodic reminders.
package main

import "github.com/mesh-intelligence/tlog/internal/cli"

func main() {
	cli.Execute()
}

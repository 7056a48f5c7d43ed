package cli

import (
	"fmt"
)

const (
	ghostman = `
        .-.
       (o o)     ghostman
       || O|
       |\_/|
       '~~~'  `
)

var (
	version = "v0.1.0"
)

func startLog() {
	fmt.Printf("%s\nVersion:\t\t\t%s\n", ghostman, version)
}

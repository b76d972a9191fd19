// Command umcp runs the bridge between MCP clients and the editor.
package main

import (
	"fmt"
	"os"

	"github.com/morikuni/failure/v2"

	"github.com/umcp/umcp/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		var userMessage string
		if fmsg := failure.MessageOf(err); fmsg != "" {
			userMessage = fmsg.String()
		} else {
			userMessage = err.Error()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", userMessage)
		os.Exit(1)
	}
}

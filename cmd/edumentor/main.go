// Command edumentor runs the tutoring system: one-shot questions (ask), an
// interactive session (chat) or the HTTP API (serve).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

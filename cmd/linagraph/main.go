// Command linagraph is the thin CLI front-end over the Namespace
// Runner and Inference Engine: it resolves a namespace configuration,
// runs its scenarios, and can query the resulting graph.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

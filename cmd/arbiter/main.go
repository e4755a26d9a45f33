// Arbiter routes a single "ask the AI something" request to one of
// several upstream text-generation providers, optionally racing several
// providers concurrently and returning the first successful result.
//
// Usage:
//
//	# Start the HTTP API server
//	arbiter run --config /etc/arbiter/config.yaml
//
//	# Ask a one-off question from the shell
//	arbiter ask --task write "Summarize the attached notes"
//
//	# Probe provider health
//	arbiter health
//
//	# Show the routing affinity table
//	arbiter routes
//
//	# Show version information
//	arbiter version
package main

func main() {
	Execute()
}

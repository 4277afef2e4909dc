// Command cqlprobe connects to a Cassandra node over TLS and runs a
// create/read/update/delete script against it.
//
// Usage:
//
//	CASSANDRA_URI=cassandra.us-east-1.amazonaws.com:9142 \
//	CASSANDRA_SSL_CERT_PATH=./sf-class2-root.crt \
//	CASSANDRA_USER=probe CASSANDRA_PASSWORD=secret \
//	cqlprobe [--driver v2] [--config cqlprobe.yaml]
//
// The process exits with status 1 on the first error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newApp(os.Stdout, os.Stderr).run(ctx, os.Args[1:])
}

// Command resolvedid looks up the DID behind a Bluesky handle, useful when
// pinning a watched account to its permanent identifier.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"bsky_watcher/internal/bsky"
)

func main() {
	service := flag.String("service", bsky.DefaultService, "PDS service URL")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: resolvedid [-service url] <handle>")
		os.Exit(1)
	}
	handle := flag.Arg(0)

	client := bsky.NewClient(&http.Client{}, *service, "", "")
	did, err := client.ResolveHandle(context.Background(), handle)
	if err != nil {
		log.Fatalf("resolve %s: %v", handle, err)
	}
	fmt.Printf("DID for %s: %s\n", handle, did)
}

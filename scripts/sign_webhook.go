// Command sign_webhook emits a valid x-signature header for a given
// secret, payment id and request id. Useful for exercising the webhook
// endpoint locally:
//
//	go run scripts/sign_webhook.go -secret whsec -id 4242 -request-id req-1
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chrono-checkout/internal/signature"
)

func main() {
	secret := flag.String("secret", "", "webhook signing secret")
	dataID := flag.String("id", "", "notification data.id (optional)")
	requestID := flag.String("request-id", "", "x-request-id header value")
	ts := flag.String("ts", "", "timestamp (defaults to now)")
	flag.Parse()

	if *secret == "" || *requestID == "" {
		fmt.Fprintln(os.Stderr, "usage: sign_webhook -secret <secret> -request-id <id> [-id <data.id>] [-ts <unix>]")
		os.Exit(1)
	}

	if *ts == "" {
		*ts = fmt.Sprintf("%d", time.Now().Unix())
	}

	manifest := signature.Manifest(*dataID, *requestID, *ts)
	digest := signature.Digest(*secret, manifest)

	fmt.Printf("manifest:    %s\n", manifest)
	fmt.Printf("x-signature: ts=%s,v1=%s\n", *ts, digest)
	fmt.Printf("x-request-id: %s\n", *requestID)
}

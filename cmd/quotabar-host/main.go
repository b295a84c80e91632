// quotabar-host is the browser native-messaging host. The browser spawns it
// fresh for every message: it reads one framed request from stdin, applies
// it against the local store, writes one framed response to stdout, and
// exits. stdout belongs to the wire, so logs go to stderr and only when
// QUOTABAR_DEBUG is set.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/quotabar/quotabar/internal/config"
	"github.com/quotabar/quotabar/internal/host"
	"github.com/quotabar/quotabar/internal/nativemsg"
	"github.com/quotabar/quotabar/internal/reset"
	"github.com/quotabar/quotabar/internal/store"
)

func main() {
	if os.Getenv("QUOTABAR_DEBUG") == "" {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	resp := handleOnce(os.Stdin)
	if err := nativemsg.Write(os.Stdout, resp); err != nil {
		// Nothing more we can do for the caller at this point.
		fmt.Fprintf(os.Stderr, "quotabar-host: %v\n", err)
		os.Exit(1)
	}
	if !resp.Success {
		log.Printf("[host] request failed: %s", resp.Error)
	}
}

// handleOnce turns whatever happens during the single request into exactly
// one Response. A panic anywhere below becomes a structured failure: an
// unanswered caller blocks forever on stdout.
func handleOnce(stdin io.Reader) (resp host.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = host.Failure(fmt.Sprintf("internal error: %v", r))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[host] config load: %v, using defaults", err)
		cfg = config.DefaultConfig()
	}

	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return host.Failure(err.Error())
		}
	}

	raw, err := nativemsg.Read(stdin)
	if err != nil {
		return host.Failure(err.Error())
	}

	st, err := store.OpenStore(dbPath)
	if err != nil {
		return host.Failure(err.Error())
	}
	defer st.Close()

	router := host.NewRouter(st, reset.NewDetector(st, cfg.ResetThreshold), dbPath)
	return router.Handle(context.Background(), raw)
}

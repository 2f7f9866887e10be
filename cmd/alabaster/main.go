package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/caasmo/alabaster"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "alabaster.toml", "path to the TOML config file")
	flag.Parse()

	app, srv, err := alabaster.New(*configPath,
		alabaster.WithPhusLogger(nil),
		alabaster.WithRouterHttprouter(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}

	// Everything the static layer does not claim lands here.
	app.Router().HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "hello from the host application")
	})
	app.Router().Handle("/metrics", promhttp.Handler())

	srv.Run()
}

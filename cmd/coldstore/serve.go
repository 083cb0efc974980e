package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/pkg/machine"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the machine catalog and metrics over HTTP",
	Long:  `Exposes the registered machines, their diagrams, a health probe, and the Prometheus metrics of machines running in this process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		fmt.Println("listening on", addr)
		return http.ListenAndServe(addr, newCatalogHandler())
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8650", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func newCatalogHandler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/machines", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, machine.Names())
	})

	r.Get("/machines/{name}", func(w http.ResponseWriter, req *http.Request) {
		fn, ok := machine.Lookup(chi.URLParam(req, "name"))
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, machine.DiagramSpec(fn()))
	})

	r.Get("/machines/{name}/mermaid", func(w http.ResponseWriter, req *http.Request) {
		fn, ok := machine.Lookup(chi.URLParam(req, "name"))
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, machine.DiagramSpec(fn()).Mermaid())
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

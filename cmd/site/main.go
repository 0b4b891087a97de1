// Command site serves the static pages site.
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/justestif/go-site-pages/internal/config"
	"github.com/justestif/go-site-pages/internal/web"
	webfs "github.com/justestif/go-site-pages/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:            cfg.Addr,
		ContactEnabled:  cfg.Variant.ContactEnabled(),
		ShutdownTimeout: cfg.ShutdownTimeout,
		TemplatesFS:     templates,
		StaticFS:        static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Printf("Serving site variant %s", cfg.Variant)
	return server.Run()
}

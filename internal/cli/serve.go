package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	shiperrors "github.com/architect-io/shipctl/pkg/errors"
	"github.com/architect-io/shipctl/pkg/runtimeconfig"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		manifestFile string
		addr         string
		dir          string
	)

	cmd := &cobra.Command{
		Use:   "serve <environment>",
		Short: "Serve the build output locally with an environment's configuration",
		Long: `Serve the build output over HTTP with the named environment's runtime
configuration document in place, the same way a deployed copy would be
served.

The configuration document and entry point are served with no-store so
edits to the document are picked up on the next reload.

Examples:
  shipctl serve development
  shipctl serve qa --addr :3000
  shipctl serve staging --dir dist/app`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment := args[0]

			m, sourceDir, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}

			target, err := m.Target(environment)
			if err != nil {
				return err
			}

			root := dir
			if root == "" {
				root = m.Build.Output
			}
			if !filepath.IsAbs(root) {
				root = filepath.Join(sourceDir, root)
			}
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return fmt.Errorf("build output not found at %s; run the build first", root)
			}

			docPath := target.Config
			if !filepath.IsAbs(docPath) {
				docPath = filepath.Join(sourceDir, docPath)
			}
			doc, err := os.ReadFile(docPath)
			if err != nil {
				if os.IsNotExist(err) {
					return shiperrors.MissingConfigError(environment, docPath)
				}
				return err
			}
			if _, err := runtimeconfig.ParseDocument(doc); err != nil {
				return fmt.Errorf("configuration document %s is invalid: %w", docPath, err)
			}

			handler := newPreviewHandler(root, docPath)

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errorCh := make(chan error, 1)
			go func() {
				fmt.Printf("[serve] %s on http://localhost%s (config: %s)\n", environment, addr, target.Config)
				errorCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("graceful shutdown failed: %w", err)
				}
				fmt.Println("\n[serve] stopped")
				return nil
			case err := <-errorCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to ship.yml if not in the current directory")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to serve (defaults to the manifest's build output)")

	return cmd
}

// newPreviewHandler serves the artifact tree, substituting the environment's
// configuration document at the runtime document path. The document is read
// per request so edits show up on reload.
func newPreviewHandler(root, docPath string) http.Handler {
	fileServer := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := strings.TrimPrefix(r.URL.Path, "/")

		if reqPath == runtimeconfig.DefaultDocumentPath {
			doc, err := os.ReadFile(docPath)
			if err != nil {
				http.Error(w, "configuration document not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Cache-Control", "no-store")
			_, _ = w.Write(doc)
			return
		}

		if reqPath == "" || reqPath == "index.html" {
			w.Header().Set("Cache-Control", "no-store")
		}

		fileServer.ServeHTTP(w, r)
	})
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/handrps/internal/app"
	"github.com/ayusman/handrps/internal/config"
	"github.com/ayusman/handrps/internal/server"
	"github.com/ayusman/handrps/internal/store"
	"github.com/ayusman/handrps/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("handrps: %v", err)
	}

	logger := log.New(os.Stderr, "[handrps] ", log.LstdFlags)
	logger.Println("Hand Rock Paper Scissors")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Game:      cfg.Game(),
		Detector:  cfg.Detector(),
		CameraID:  cfg.CameraID,
		CameraFPS: cfg.CameraFPS,
		Mirror:    cfg.Mirror,
		Seed:      cfg.Seed,
		Store:     st,
	})

	hub := server.NewHub()
	application.AddObserver(hub)

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
		application.AddObserver(tr)
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		logger.Printf("Serving static files from: %s", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Matches:   application,
		Feed:      application.Preview(),
		Hub:       hub,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		logger.Fatalf("Failed to start game: %v", err)
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Server failed: %v", err)
			stop()
		}
	}()

	go func() {
		if err := <-application.Done(); err != nil {
			logger.Printf("Game ended: %v", err)
		}
		stop()
	}()

	if tr != nil {
		url := browserURL(cfg.Addr)
		tr.OnNewMatch(application.Restart)
		tr.OnOpen(func() { openBrowser(logger, url) })
		tr.OnQuit(stop)

		go func() {
			<-ctx.Done()
			tr.Quit()
		}()

		// systray needs the main thread.
		tr.Run()
	} else {
		<-ctx.Done()
	}

	logger.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server shutdown: %v", err)
	}
	application.Stop()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(logger *log.Logger, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Printf("Failed to open browser: %v", err)
		return
	}
	go cmd.Wait()
}

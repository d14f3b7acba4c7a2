package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/skip2/go-qrcode"

	"cannonade/config"
	"cannonade/internal/server"
	"cannonade/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "Path to client directory (default: ../client)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database")
	flag.BoolVar(&cfg.NoQR, "no-qr", cfg.NoQR, "Skip printing the join QR code")
	flag.Parse()

	if cfg.ClientDir == "" {
		exe, _ := os.Executable()
		cfg.ClientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(cfg.ClientDir); os.IsNotExist(err) {
			cfg.ClientDir = "../client"
		}
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("store unavailable, playing without persistence: %v", err)
		st = nil
	} else {
		defer st.Close()
	}

	reg := server.NewRegistry(st)
	mux := server.SetupRoutes(reg, cfg.ClientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Printf("Serving client files from %s", cfg.ClientDir)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	if !cfg.NoQR {
		printJoinQR(cfg.Addr)
	}

	<-stop
	log.Println("Shutting down...")
	srv.Close()
}

// joinURL builds the address other devices on the LAN can open.
func joinURL(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		port = "8080"
	}
	host := "localhost"
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				host = ip4.String()
				break
			}
		}
	}
	return fmt.Sprintf("http://%s:%s/", host, port)
}

// printJoinQR renders the join URL as a terminal QR code
func printJoinQR(addr string) {
	url := joinURL(addr)
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		log.Printf("qr: %v", err)
		return
	}
	fmt.Print(q.ToSmallString(false))
	log.Printf("Scan to open %s", url)
}

package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"micro-city/internal/city"
	"micro-city/internal/config"
	"micro-city/internal/game"
	"micro-city/internal/logging"
	"micro-city/internal/server"
	"micro-city/internal/tiles"
)

func main() {
	configPath := flag.String("config", "", "config file (default: microcity.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped")
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	if err := ensureHostKey(cfg.SSH.HostKey, log); err != nil {
		return fmt.Errorf("host key: %w", err)
	}

	c, err := loadCity(cfg.City.Path, log)
	if err != nil {
		return err
	}
	atlas, err := loadAtlas(cfg.Atlas.Path, log)
	if err != nil {
		return err
	}

	world := game.NewWorld(c)
	gameLoop := game.NewGameLoop(world, log,
		game.WithTickRate(cfg.Game.TickRate),
		game.WithScrollSpeed(cfg.Game.ScrollSpeed),
	)
	go gameLoop.Run()
	defer gameLoop.Stop()

	errCh := make(chan error, 2)

	sshServer := server.NewSSHServer(cfg.SSH.Addr, cfg.SSH.HostKey, gameLoop, atlas, log)
	go func() { errCh <- sshServer.Start() }()
	log.Infof("Starting %s: connect with ssh -p %s YourName@localhost", c.Name, portOf(cfg.SSH.Addr))

	var httpServer *server.HTTPServer
	if cfg.HTTP.Addr != "" {
		frames, err := server.NewFrameCache(cfg.Cache.MaxCost, cfg.Cache.TTL)
		if err != nil {
			return err
		}
		defer frames.Close()
		httpServer = server.NewHTTPServer(cfg.HTTP.Addr, gameLoop, atlas, frames, log)
		go func() { errCh <- httpServer.Start() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutting down")
	case err = <-errCh:
		if err != nil {
			log.WithError(err).Error("Listener failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if httpServer != nil {
		if serr := httpServer.Shutdown(ctx); serr != nil {
			log.WithError(serr).Warn("HTTP shutdown")
		}
	}
	if serr := sshServer.Shutdown(ctx); serr != nil {
		log.WithError(serr).Warn("SSH shutdown")
	}
	return err
}

func loadCity(path string, log logrus.FieldLogger) (*city.City, error) {
	if path == "" {
		return city.Default(), nil
	}
	c, err := city.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("City file not found, using the default town")
		return city.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"city":      c.Name,
		"path":      path,
		"buildings": c.BuildingCount(),
	}).Info("City loaded")
	return c, nil
}

func loadAtlas(path string, log logrus.FieldLogger) (*tiles.Atlas, error) {
	if path == "" {
		return tiles.Builtin(), nil
	}
	atlas, err := tiles.LoadPNG(path)
	if err != nil {
		return nil, err
	}
	log.WithField("path", path).Info("Tile atlas loaded")
	return atlas, nil
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}

func ensureHostKey(path string, log logrus.FieldLogger) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.WithField("path", path).Info("Generating new host key")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}

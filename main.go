// Command server runs the FTP server: server <port> [reactor_workers]
// [task_workers].
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/lmittmann/tint"
	"github.com/telebroad/ftpd/credentials"
	"github.com/telebroad/ftpd/filesystem"
	"github.com/telebroad/ftpd/ftp"
)

func main() {
	logger := setupLogger()
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: server <port> [reactor_workers=4] [task_workers=4]")
		os.Exit(1)
	}

	port, err := strconv.Atoi(os.Args[1])
	if err != nil {
		logger.Error("invalid port", "error", err)
		os.Exit(1)
	}

	reactorWorkers := intArg(os.Args, 2, 4)
	taskWorkers := intArg(os.Args, 3, 4)

	root := os.Getenv("FTP_ROOT")
	if root == "" {
		root = "."
	}
	fsys, err := filesystem.NewLocalFS(root)
	if err != nil {
		logger.Error("failed to open ftp root", "error", err)
		os.Exit(1)
	}

	credsFile := os.Getenv("FTP_CREDENTIALS_FILE")
	creds, err := credentials.Load(credsFile)
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}
	logger.Info("credentials loaded", "entries", creds.Len())

	srv := ftp.NewServer(fmt.Sprintf(":%d", port), fsys, creds, reactorWorkers, taskWorkers)
	srv.SetLogger(logger.With("module", "ftp-server"))
	srv.BindAddr = os.Getenv("FTP_BIND_ADDR")
	srv.PasvMinPort = envInt("FTP_PASV_MIN_PORT")
	srv.PasvMaxPort = envInt("FTP_PASV_MAX_PORT")

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("ftp server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("ftp server started", "port", port, "reactor_workers", reactorWorkers, "task_workers", taskWorkers)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	<-stopChan

	logger.Info("shutting down")
	if err := srv.Close(); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

func setupLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	addSource := false
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		logLevel = slog.LevelDebug
		addSource = true
	case "INFO":
		logLevel = slog.LevelInfo
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	}

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		AddSource: addSource,
		Level:     logLevel,
	})
	return slog.New(handler).With("app", "ftp-server")
}

func intArg(args []string, idx, def int) int {
	if idx >= len(args) {
		return def
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		return def
	}
	return n
}

func envInt(name string) int {
	n, _ := strconv.Atoi(os.Getenv(name))
	return n
}

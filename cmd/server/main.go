package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/logger"
	"github.com/baditaflorin/go_question_coverage/internal/config"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
	"github.com/baditaflorin/go_question_coverage/internal/server"
	"github.com/baditaflorin/go_question_coverage/pkg/coverage"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	defaults, err := config.ServerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	// Parse command-line flags
	port := flag.Int("port", defaults.Port, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", defaults.MaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", defaults.Concurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	threshold := flag.Float64("threshold", defaults.Threshold, "Default match threshold")
	phonetic := flag.Bool("phonetic", false, "Match tokens by Double Metaphone code")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	logFile := flag.String("log-file", defaults.LogFile, "Log file path (empty = stdout)")
	flag.Parse()

	log, err := createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting coverage HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
		"threshold", *threshold,
	)

	opts := []coverage.Option{
		coverage.WithThreshold(*threshold),
		coverage.WithOptimizedNormalizer(),
		coverage.WithWarmUp(*warmUp),
	}
	if *phonetic {
		opts = append(opts, coverage.WithPhoneticMatching())
	}
	checker, err := coverage.New(append(opts, coverage.WithLoggerAdapter(log))...)
	if err != nil {
		log.Error("Failed to initialize coverage checker", "error", err)
		exit(log, 1)
	}

	log.Info("Coverage checker initialized",
		"warm_up", *warmUp,
		"phonetic", *phonetic,
		"cpus", runtime.NumCPU(),
	)

	handler := server.NewHandler(checker, log)
	srv := &fasthttp.Server{
		Handler:               handler.HandleRequest,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", *port)
	log.Info("Server listening", "address", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	log.Info("Server stopped")
}

var osExit = os.Exit

// exit closes the logger, flushing buffered entries, and terminates the process.
func exit(log ports.Logger, code int) {
	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing logger: %v\n", err)
	}
	osExit(code)
}

// createLogger creates and configures a logger
func createLogger(logFile string) (ports.Logger, error) {
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	cfg := logger.DefaultConfig(output, true)
	cfg.MaxFileSize = 100 * 1024 * 1024 // 100MB
	log, err := logger.NewCustomStdLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/bassamadnan/mailsort/classify"
	"github.com/bassamadnan/mailsort/config"
	"github.com/bassamadnan/mailsort/credential"
	"github.com/bassamadnan/mailsort/gmail"
	"github.com/bassamadnan/mailsort/tui"
)

const settingsPath = "config/settings.json"

func main() {
	setKey := flag.Bool("set-gemini-key", false, "read a Gemini API key from stdin, store it in the system keyring and exit")
	flag.Parse()

	if *setKey {
		if err := storeGeminiKey(); err != nil {
			fmt.Fprintf(os.Stderr, "storing key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Gemini API key stored.")
		return
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile("mailsort.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
	logger.Info("application starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received, cancelling context")
		cancel()
	}()

	cfgManager, err := config.NewManager(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading settings: %v\n", err)
		os.Exit(1)
	}
	settings := cfgManager.Get()

	gmailClient, err := gmail.NewClient(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing Gmail client: %v\nEnsure credentials.json is present and valid.\n", err)
		os.Exit(1)
	}
	logger.Info("gmail client initialized")

	apiKey := credential.GeminiKey()
	if apiKey == "" {
		logger.Warn("no Gemini API key configured, classifying with rules only")
	}
	classifier := classify.New(apiKey, settings.Models, logger)
	classifier.SetPacing(settings.ItemDelay(), settings.RateLimitBackoff())

	model := tui.NewInitialModel(ctx, gmailClient, classifier, settings.MaxResults)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("exiting")
}

func storeGeminiKey() error {
	fmt.Print("Gemini API key: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return credential.Set(credential.GeminiAPIKey, key)
}

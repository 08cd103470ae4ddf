package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion"
	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion/config"
	"github.com/KYKELUKE/IA-AyudaAuditiva/history"
	"github.com/KYKELUKE/IA-AyudaAuditiva/logging"
	"github.com/KYKELUKE/IA-AyudaAuditiva/server"
	"github.com/KYKELUKE/IA-AyudaAuditiva/transcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "emotiond",
		Usage: "voice emotion analysis service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "path to .env file with configuration overrides",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "path to a JSON linear model (rule-based scorer when omitted)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP analysis server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address",
						Value: ":8080",
					},
				},
				Action: serveAction,
			},
			{
				Name:      "analyze",
				Usage:     "analyze a single audio file and print the result",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "record the result under this user ID",
					},
				},
				Action: analyzeAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the env file, configures logging and builds the analyzer
func setup(cmd *cli.Command) (*emotion.Analyzer, error) {
	if envFile := cmd.String("env"); envFile != "" {
		// Missing .env is fine; explicit paths that fail to parse are not
		if err := godotenv.Load(envFile); err != nil && envFile != ".env" {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	logger := logging.NewLogrusLoggerWithLevel(parseLevel(cmd.String("log-level")))
	logging.SetGlobalLogger(logger)

	cfg := config.FromEnv(config.DefaultPipelineConfig())

	modelPath := cmd.String("model")
	if modelPath == "" {
		modelPath = os.Getenv("EMOTION_MODEL_PATH")
	}

	var model emotion.ScoringModel
	if modelPath != "" {
		linear, err := emotion.LoadLinearModel(modelPath)
		if err != nil {
			return nil, err
		}
		model = linear
	} else {
		model = emotion.NewRuleModel(cfg.MFCCCoefficients)
	}

	return emotion.NewAnalyzer(cfg, model, history.NewMemoryStore())
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	analyzer, err := setup(cmd)
	if err != nil {
		return err
	}

	srv := server.New(analyzer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cmd.String("addr"))
	}()

	select {
	case <-ctx.Done():
		logging.WithFields(logging.Fields{"component": "main"}).Info("Shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: emotiond analyze <file>")
	}

	analyzer, err := setup(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	clip := transcode.AudioClip{
		Data:     data,
		MIMEType: mimeFromExtension(path),
	}

	result, err := analyzer.Analyze(ctx, clip, cmd.String("user"))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	default:
		return "audio/wav"
	}
}

func parseLevel(level string) logging.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logging.DebugLevel
	case "warn":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}

// Command scribed runs the dictation pipeline from a terminal. Newline
// commands on stdin stand in for the hotkey source; state changes and
// final transcripts are printed to stdout.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/llm"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/session"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/groq"
	"github.com/kbukum/scribe/transcription/openai"
	"github.com/kbukum/scribe/version"
)

const groqChatBaseURL = "https://api.groq.com/openai/v1"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scribed:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(settings.Logging)
	log := logger.WithComponent("scribed")
	log.Info("scribed starting", logger.Fields("version", version.Short()))

	providers, err := buildProviders(settings)
	if err != nil {
		return err
	}
	log.Info("transcription providers configured", logger.Fields(
		logger.FieldProvider, strings.Join(settings.Transcription.Providers(), ","),
	))

	client := transcription.NewClient(transcription.ClientConfig{
		Providers:      providers,
		MaxAttempts:    settings.Transcription.MaxAttempts,
		InitialBackoff: settings.Transcription.InitialBackoff,
		MaxBackoff:     settings.Transcription.MaxBackoff,
		AttemptTimeout: settings.Transcription.AttemptTimeout,
		Workers:        settings.Transcription.Workers,
		Language:       settings.Transcription.Language,
		Prompt:         settings.Transcription.Prompt,
		Cleanup:        buildCleanup(settings, log),
		CleanupModel:   settings.PostProcess.Model,
	})

	inventory := audio.NewFFmpegInventory("")
	recorder := audio.NewRecorder(inventory, audio.RecorderConfig{
		SampleRate: settings.Audio.SampleRate,
		Channels:   settings.Audio.Channels,
		Device:     settings.Audio.InputDevice,
	})
	chunker := audio.NewChunker(audio.NewFFmpegCompressor(settings.Transcription.CompressBitrate))

	controller := session.New(recorder, chunker, client, session.Config{
		MinDuration: settings.Audio.MinDuration,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go controller.Run(ctx)
	go consumeEvents(ctx, controller)

	fmt.Println("commands: start | stop | pause | resume | cancel | toggle | status | quit")
	return commandLoop(ctx, controller)
}

// buildProviders creates the ordered backend list: the configured primary
// first, then any other provider with credentials as fallback.
func buildProviders(settings *config.Settings) ([]transcription.Provider, error) {
	order := settings.Transcription.Providers()
	mgr := transcription.NewManager(transcription.WithSelector(
		&provider.PrioritySelector[transcription.Provider]{Priority: order},
	))
	mgr.Register(groq.ProviderName, groq.Factory())
	mgr.Register(openai.ProviderName, openai.Factory())

	for _, name := range order {
		cfg := map[string]any{
			"api_key": settings.Transcription.APIKey(name),
		}
		if name == settings.Transcription.PrimaryProvider {
			cfg["model"] = settings.Transcription.Model
		}
		if err := mgr.Initialize(name, cfg); err != nil {
			return nil, fmt.Errorf("create %s provider: %w", name, err)
		}
	}
	return mgr.Ordered(order)
}

// buildCleanup wires the optional transcript-formatting pass. Groq is
// preferred for latency; OpenAI is the fallback when only that key exists.
func buildCleanup(settings *config.Settings, log *logger.Logger) llm.Completer {
	if !settings.PostProcess.Enabled {
		return nil
	}

	cfg := llm.Config{Model: settings.PostProcess.Model}
	switch {
	case settings.Transcription.GroqAPIKey != "":
		cfg.Name = "groq-cleanup"
		cfg.BaseURL = groqChatBaseURL
		cfg.APIKey = settings.Transcription.GroqAPIKey
	case settings.Transcription.OpenAIAPIKey != "":
		cfg.Name = "openai-cleanup"
		cfg.APIKey = settings.Transcription.OpenAIAPIKey
		cfg.Model = "gpt-4o-mini"
	default:
		log.Warn("post-processing enabled but no API key available, disabling")
		return nil
	}

	completer, err := llm.New(cfg)
	if err != nil {
		log.Warn("post-processing unavailable", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	return completer
}

// consumeEvents is the observer: it renders state changes and results, and
// acknowledges terminal events so the controller can return to idle.
func consumeEvents(ctx context.Context, controller *session.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-controller.Events():
			switch ev.Kind {
			case session.EventStateChanged:
				line := fmt.Sprintf("state: %s", ev.State)
				if ev.Device != "" {
					line += fmt.Sprintf(" (device %s)", ev.Device)
				}
				if ev.Elapsed > 0 {
					line += fmt.Sprintf(" [%.1fs]", ev.Elapsed.Seconds())
				}
				fmt.Println(line)
			case session.EventResult:
				if ev.Err != nil {
					fmt.Printf("session failed: %v\n", ev.Err)
				} else {
					note := ""
					if ev.Transcript.PostProcessed {
						note = " (cleaned)"
					}
					fmt.Printf("transcript%s:\n%s\n", note, ev.Transcript.Text)
				}
				controller.Dispatch(session.CommandAcknowledge)
			case session.EventCommandRejected:
				fmt.Printf("rejected: %v\n", ev.Err)
			}
		}
	}
}

// commandLoop reads stdin commands until quit or shutdown.
func commandLoop(ctx context.Context, controller *session.Controller) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(strings.ToLower(scanner.Text()))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "":
			case "quit", "exit":
				return nil
			case "status":
				snap := controller.Snapshot()
				fmt.Printf("state=%s session=%s device=%s elapsed=%.1fs\n",
					snap.State, snap.SessionID, snap.Device, snap.Elapsed.Seconds())
			case "start", "stop", "pause", "resume", "cancel", "toggle":
				controller.Dispatch(session.Command(line))
			default:
				fmt.Printf("unknown command %q\n", line)
			}
		}
	}
}

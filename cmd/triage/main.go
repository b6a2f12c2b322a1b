package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/psiazon/clinical-triage/internal/config"
	"github.com/psiazon/clinical-triage/internal/llm"
	"github.com/psiazon/clinical-triage/internal/schedule"
	"github.com/psiazon/clinical-triage/internal/summarize"
	"github.com/psiazon/clinical-triage/internal/triage"
)

const version = "0.1.0"

const defaultPatient = "John Smith"

// defaultNote is the built-in demo input used when --note is not given.
const defaultNote = `58-year-old male presents with sudden onset of crushing substernal chest pain radiating to the left arm, started 45 minutes ago while mowing the lawn. Diaphoretic, nauseated, short of breath. History of hypertension and type 2 diabetes. Took one aspirin at home. Pain 8/10, not relieved by rest.`

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// .env is optional; real env vars always win.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "run":
		patient := flagValue(os.Args[2:], "--patient")
		if patient == "" {
			patient = defaultPatient
		}
		note := defaultNote
		if notePath := flagValue(os.Args[2:], "--note"); notePath != "" {
			data, err := os.ReadFile(notePath)
			if err != nil {
				fatal("read note: %v", err)
			}
			note = string(data)
		}
		if err := run(patient, note); err != nil {
			fatal("%v", err)
		}

	case "version":
		fmt.Printf("triage v%s (clinical-triage)\n", version)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

// run executes the single-shot flow: triage decision, conditional scheduling,
// summary. The first failure aborts the run.
func run(patient, note string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}

	llmTimeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second

	decideCtx, cancel := context.WithTimeout(context.Background(), llmTimeout)
	decision, err := triage.Decide(decideCtx, client, patient, note)
	cancel()
	if err != nil {
		return err
	}
	printSection("Triage Decision", mustJSON(decision))

	schedCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Scheduling.TimeoutSeconds)*time.Second)
	outcome, err := schedule.Dispatch(schedCtx, schedule.NewClient(cfg.Scheduling.BaseURL), decision, patient, note)
	cancel()
	if err != nil {
		return err
	}
	printSection("Scheduling Results", mustJSON(outcome))

	sumCtx, cancel := context.WithTimeout(context.Background(), llmTimeout)
	summary, err := summarize.Generate(sumCtx, client, summarize.Input{
		PatientName:  patient,
		ClinicalNote: note,
		Decision:     decision,
		Outcome:      outcome,
	})
	cancel()
	if err != nil {
		return err
	}
	printSection("Summary", summary)

	return nil
}

func printSection(title, body string) {
	fmt.Printf("=== %s ===\n%s\n\n", title, body)
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("(marshal error: %v)", err)
	}
	return string(data)
}

func usage() {
	fmt.Fprintf(os.Stderr, `triage v%s — clinical triage demo orchestrator

Usage:
  triage run [--patient <name>] [--note <file>]   Run the triage flow once
  triage version                                  Print version
  triage help                                     Show this help

Environment:
  OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL
  AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, AZURE_OPENAI_DEPLOYMENT
  SCHEDULING_API_BASE_URL (default http://localhost:5246)

Configuration: ~/.config/clinical-triage/config.toml
`, version)
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "triage: "+format+"\n", args...)
	os.Exit(1)
}

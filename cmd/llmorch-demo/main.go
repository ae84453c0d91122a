// Command llmorch-demo wires a config file, a transport client, and a
// two-task workflow together end to end, against whichever provider
// credentials are present in the environment.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/flowcraft/llmorch/agent"
	"github.com/flowcraft/llmorch/config"
	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/transport"
	"github.com/flowcraft/llmorch/workflow"
)

// newLogger returns a JSON slog-backed Logger when LLMORCH_JSON_LOGS is
// set, otherwise the human-readable StdLogger.
func newLogger() agent.Logger {
	if os.Getenv("LLMORCH_JSON_LOGS") != "" {
		return agent.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
	return agent.NewStdLogger(agent.LogLevelInfo)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: no .env file loaded: %v", err)
	}

	cfg := config.Default()
	if path := os.Getenv("LLMORCH_CONFIG"); path != "" {
		loaded, err := config.LoadWithEnvOverrides(path)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()
	logger := newLogger()
	tr := transport.NewEnvClient()

	researcher := agent.New("researcher", cfg.DefaultProvider, tr, cfg.Resolver(), cfg.Limiters(), logger)
	researcher.SystemInstructions = []string{"You are a terse research assistant. Answer in one sentence."}

	summarizer := agent.New("summarizer", cfg.DefaultProvider, tr, cfg.Resolver(), cfg.Limiters(), logger)
	summarizer.SystemInstructions = []string{"You summarize research notes into a single punchy headline."}

	wf := workflow.New("research-and-summarize")
	wf.AddAgent(researcher)
	wf.AddAgent(summarizer)

	researchPrompt, err := prompt.New(cfg.DefaultModel, cfg.DefaultProvider, "What is ${topic} and why does it matter?")
	if err != nil {
		log.Fatalf("build research prompt: %v", err)
	}
	researchTask, err := workflow.NewTask("research", "researcher", researchPrompt)
	if err != nil {
		log.Fatalf("build research task: %v", err)
	}

	summaryPrompt, err := prompt.New(cfg.DefaultModel, cfg.DefaultProvider, "Summarize this in one headline: ${research}")
	if err != nil {
		log.Fatalf("build summary prompt: %v", err)
	}
	summaryTask, err := workflow.NewTask("summary", "summarizer", summaryPrompt, "research")
	if err != nil {
		log.Fatalf("build summary task: %v", err)
	}

	if err := wf.AddTask(researchTask); err != nil {
		log.Fatalf("add research task: %v", err)
	}
	if err := wf.AddTask(summaryTask); err != nil {
		log.Fatalf("add summary task: %v", err)
	}

	topic := "the halting problem"
	if v := os.Getenv("LLMORCH_DEMO_TOPIC"); v != "" {
		topic = v
	}

	result, err := wf.Run(ctx, map[string]any{"topic": topic})
	if err != nil {
		log.Fatalf("run workflow: %v", err)
	}

	for _, id := range []string{"research", "summary"} {
		task := result.Tasks[id]
		if task.Status != workflow.TaskCompleted {
			fmt.Printf("%s: %s (%v)\n", id, task.Status, task.Result.Err)
			continue
		}
		fmt.Printf("%s: %s\n", id, task.Result.Response.Text)
	}
}

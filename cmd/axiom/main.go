// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command axiom is the CLI front-end for the agent runtime (spec.md §6).
//
// Usage:
//
//	axiom solve "What is 2+2?"
//	axiom solve --depth-max 5 "Plan a product launch"
//	axiom chat
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	axiom "github.com/kadirpekel/axiom"
	"github.com/kadirpekel/axiom/agent"
	"github.com/kadirpekel/axiom/async"
	"github.com/kadirpekel/axiom/event"
	"github.com/kadirpekel/axiom/executor"
	"github.com/kadirpekel/axiom/history"
	"github.com/kadirpekel/axiom/internal/config"
	"github.com/kadirpekel/axiom/internal/logging"
	"github.com/kadirpekel/axiom/internal/tracing"
	"github.com/kadirpekel/axiom/ipv"
	"github.com/kadirpekel/axiom/llms"
	"github.com/kadirpekel/axiom/memory"
	"github.com/kadirpekel/axiom/problemctx"
	"github.com/kadirpekel/axiom/resource"
	"github.com/kadirpekel/axiom/sandbox"
	"github.com/kadirpekel/axiom/strategy"
)

// CLI defines the command-line interface. Flags fall back to the
// environment variables config recognizes (spec.md §6) before their
// hardcoded defaults, so a deployment can be tuned without touching the
// invocation.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Solve   SolveCmd   `cmd:"" help:"Solve a single problem statement and exit."`
	Chat    ChatCmd    `cmd:"" help:"Start an interactive chat loop against the agent."`

	Provider    string `help:"LLM provider (anthropic, openai, mock)." env:"AXIOM_LLM_PROVIDER" default:"mock"`
	Model       string `help:"Model name." env:"AXIOM_LLM_MODEL"`
	APIKey      string `name:"api-key" help:"LLM API key." env:"ANTHROPIC_API_KEY"`
	Interpreter string `help:"Code-sandbox interpreter." default:"python3"`
	DepthMax    int    `name:"depth-max" help:"Recursion controller's D_max." default:"${depthMaxDefault}"`
	LogLevel    string `name:"log-level" help:"Log level (debug, info, warn, error)." default:"info"`
	Trace       bool   `help:"Print solve/plan spans to stdout."`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := axiom.Version
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("axiom %s\n", version)
	return nil
}

// SolveCmd solves a single problem statement, printing the result and
// exiting with a code derived from the event bus (spec.md §6: 0 on
// Done/FinalResult, 1 on Error).
type SolveCmd struct {
	Problem string `arg:"" help:"The problem statement to solve."`
}

func (c *SolveCmd) Run(cli *CLI) error {
	a, release, err := cli.buildAgent()
	if err != nil {
		return err
	}
	defer release()

	exitCode := 0
	_ = a.Events().On(func(ev event.Event) {
		if ev.Kind == event.KindError {
			exitCode = 1
		}
	})

	result, err := a.Solve(c.Problem)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result)
	os.Exit(exitCode)
	return nil
}

// ChatCmd runs an interactive read-chat-print loop over stdin.
type ChatCmd struct{}

func (c *ChatCmd) Run(cli *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, release, err := cli.buildAgent()
	if err != nil {
		return err
	}
	defer release()

	fmt.Println("axiom chat — type a problem, Ctrl+D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		reply, err := a.Chat(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(reply)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return nil
}

// buildAgent wires one Agent from CLI flags: the LLM/coding/input
// resources, the Strategy Selector with Planner/Recursive/Decomposer/
// Explorer/Iterative registered, the Executor, and the collaborators
// Acquire needs, per spec.md §6's deployable-repo requirement ("at
// least one working instance of each").
func (cli *CLI) buildAgent() (*agent.Agent, func(), error) {
	level, _ := logging.ParseLevel(cli.LogLevel)
	logger := logging.New(os.Stderr, level, "simple")

	var shutdownTracing func(context.Context) error
	if cli.Trace {
		var err error
		shutdownTracing, err = tracing.InitStdout(context.Background())
		if err != nil {
			return nil, nil, err
		}
	}

	res := resource.NewRegistry()

	provider := cli.Provider
	if config.MockLLM() {
		provider = "mock"
	}
	var llm resource.Handle
	switch provider {
	case "anthropic":
		llm = llms.NewAnthropicProvider(llms.AnthropicConfig{APIKey: cli.APIKey, Model: cli.Model})
	case "openai":
		llm = llms.NewOpenAIProvider(llms.OpenAIConfig{APIKey: cli.APIKey, Model: cli.Model})
	default:
		llm = llms.NewMockProvider("")
	}
	if err := res.Register("llm", llm); err != nil {
		return nil, nil, err
	}

	coding := sandbox.New(sandbox.Config{Interpreter: cli.Interpreter})
	if err := res.Register("coding", coding); err != nil {
		return nil, nil, err
	}

	input := resource.NewStdinInput(os.Stdin)
	if err := res.Register("input", input); err != nil {
		return nil, nil, err
	}

	planner := strategy.NewPlanner(llm)
	selector := strategy.NewSelector(
		planner,
		strategy.NewRecursive(llm),
		strategy.NewDecomposer(),
		strategy.NewExplorer(llm),
		strategy.NewIterative(llm),
	)

	ex := executor.New(executor.Resources{LLM: llm, Coding: coding, Input: input}, nil)

	bus := event.NewBus(logger)
	a := agent.New(agent.Config{
		Name:       "axiom",
		Memory:     memory.New(),
		Events:     bus,
		Resources:  res,
		Strategies: selector,
		Executor:   ex,
		Controller: problemctx.NewController(cli.DepthMax),
		History:    history.New(nil),
		Pool:       async.NewPool(4),
		IPV:        ipv.Passthrough{},
		Logger:     logger,
	})
	ex.Solver = a

	ctx := context.Background()
	if err := a.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	return a, func() {
		_ = a.Release(ctx)
		if shutdownTracing != nil {
			_ = shutdownTracing(ctx)
		}
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func main() {
	_ = config.LoadDotEnv("")

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("axiom"),
		kong.Description("Axiom — a planner/executor/workflow agent runtime"),
		kong.UsageOnError(),
		kong.Vars{"depthMaxDefault": strconv.Itoa(config.MaxRecursionDepth())},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

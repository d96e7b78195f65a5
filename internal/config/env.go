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

// Package config holds the environment-variable configuration recognized
// by the runtime (spec.md §6). There is no on-disk persisted state; all
// tuning knobs are environment variables, optionally loaded from a .env
// file via godotenv.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env names recognized by the runtime.
const (
	EnvMockLLM           = "DANA_MOCK_LLM"
	EnvMaxRecursionDepth = "AXIOM_MAX_RECURSION_DEPTH"
	EnvMaxIterations     = "AXIOM_MAX_ITERATIONS"
	EnvCodeTimeoutSecs   = "AXIOM_CODE_TIMEOUT_SECONDS"
	EnvLLMProvider       = "AXIOM_LLM_PROVIDER"
	EnvLLMModel          = "AXIOM_LLM_MODEL"
	EnvAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
)

// Defaults for the runtime's bounded-recursion and timeout knobs.
const (
	DefaultMaxRecursionDepth = 10
	DefaultMaxIterations     = 10
	DefaultCodeTimeoutSecs   = 30
)

// LoadDotEnv loads a .env file if present; a missing file is not an error,
// matching the "absence must not fail the pipeline" rule applied
// throughout the spec's external-collaborator contracts.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MockLLM reports whether DANA_MOCK_LLM is set to a truthy value.
func MockLLM() bool {
	return boolEnv(EnvMockLLM, false)
}

// MaxRecursionDepth returns AXIOM_MAX_RECURSION_DEPTH, or the default.
func MaxRecursionDepth() int {
	return intEnv(EnvMaxRecursionDepth, DefaultMaxRecursionDepth)
}

// MaxIterations returns AXIOM_MAX_ITERATIONS, or the default.
func MaxIterations() int {
	return intEnv(EnvMaxIterations, DefaultMaxIterations)
}

// CodeTimeoutSeconds returns AXIOM_CODE_TIMEOUT_SECONDS, or the default.
func CodeTimeoutSeconds() int {
	return intEnv(EnvCodeTimeoutSecs, DefaultCodeTimeoutSecs)
}

func boolEnv(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func intEnv(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

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

package sandbox

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// NewSubprocessLogger builds the hclog.Logger used as the sink for a
// sandboxed subprocess's stderr, the same role go-plugin gives hclog when
// launching an external plugin binary (teacher's plugins/grpc/loader.go).
// The coding sandbox reuses that shape even though it isn't a go-plugin
// RPC peer: it's still an external process whose diagnostic stream wants
// structured, leveled logging rather than a raw io.Writer.
func NewSubprocessLogger(name string, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: out,
		Level:  hclog.Debug,
	})
}

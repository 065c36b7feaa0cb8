// Copyright 2023 Google Inc. All Rights Reserved.
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

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func redirectToBuffer(buf *bytes.Buffer, format string, level *slog.LevelVar) {
	defaultLogger = slog.New(newHandler(buf, format, level))
}

func TestSeverityFiltersOutLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	redirectToBuffer(&buf, "text", level)
	setLoggingLevel(WARNING, level)

	Infof("should not appear")
	assert.Empty(t, buf.String())

	Warnf("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestOffSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	redirectToBuffer(&buf, "text", level)
	setLoggingLevel(OFF, level)

	Errorf("nothing should show up")
	assert.Empty(t, buf.String())
}

func TestJSONFormatProducesJSON(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	redirectToBuffer(&buf, "json", level)
	setLoggingLevel(INFO, level)

	Infof("hello %s", "world")
	assert.Contains(t, buf.String(), `"msg":"hello world"`)
}

/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevel_String 测试日志级别的字符串表示
func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"}, // 测试未知级别
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{" Warning ", WARN, false},
		{"error", ERROR, false},
		{"none", OFF, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

// TestLevelText 测试文本编解码，用于配置文件
func TestLevelText(t *testing.T) {
	var level Level
	require.NoError(t, level.UnmarshalText([]byte("warn")))
	assert.Equal(t, WARN, level)
	assert.Error(t, level.UnmarshalText([]byte("loud")))
	assert.Equal(t, WARN, level)

	text, err := DEBUG.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", string(text))
}

// TestLogFormat 测试日志格式
func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(INFO, &buf).Info("parsed %d columns", 3)

	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] \[INFO\] parsed 3 columns\n$`)
	assert.Regexp(t, pattern, buf.String())
}

// TestNamedLogger 测试带组件名的日志
func TestNamedLogger(t *testing.T) {
	var buf bytes.Buffer
	NewNamedLogger(WARN, &buf, "sqlbuilder").Warn("syntax check failed")
	assert.Contains(t, buf.String(), "[WARN] [sqlbuilder] syntax check failed")
}

// TestDefaultLogger_LevelFiltering 测试日志级别过滤
func TestDefaultLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		loggerLevel  Level
		messageLevel Level
		shouldLog    bool
	}{
		{DEBUG, DEBUG, true},
		{DEBUG, ERROR, true},
		{INFO, DEBUG, false},
		{INFO, INFO, true},
		{INFO, WARN, true},
		{WARN, INFO, false},
		{WARN, WARN, true},
		{ERROR, WARN, false},
		{ERROR, ERROR, true},
		{OFF, ERROR, false},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		logger := NewLogger(test.loggerLevel, &buf)

		// 根据消息级别调用相应的日志方法
		switch test.messageLevel {
		case DEBUG:
			logger.Debug("test message")
		case INFO:
			logger.Info("test message")
		case WARN:
			logger.Warn("test message")
		case ERROR:
			logger.Error("test message")
		}

		assert.Equal(t, test.shouldLog, buf.Len() > 0,
			"logger level %s, message level %s", test.loggerLevel, test.messageLevel)
		if test.shouldLog {
			assert.Contains(t, buf.String(), "["+test.messageLevel.String()+"]")
		}
	}
}

// TestDefaultLogger_SetLevel 测试设置日志级别
func TestDefaultLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DEBUG, &buf)

	logger.SetLevel(ERROR)
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	assert.Empty(t, buf.String())

	logger.Error("error message")
	assert.Contains(t, buf.String(), "error message")

	buf.Reset()
	logger.SetLevel(OFF)
	logger.Error("error message")
	assert.Empty(t, buf.String())
}

// TestNewDiscardLogger 测试丢弃日志器
func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	require.NotNil(t, logger)

	assert.NotPanics(t, func() {
		logger.Debug("debug %s", "test")
		logger.Info("info %d", 123)
		logger.Warn("warn %v", true)
		logger.Error("error %s %d", "test", 456)
		logger.SetLevel(DEBUG)
	})
}

// TestGlobalLogger 测试全局日志器
func TestGlobalLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	testLogger := NewLogger(DEBUG, &buf)
	SetDefault(testLogger)
	assert.Equal(t, testLogger, GetDefault())

	Debug("global debug message")
	Info("global info message")
	Warn("global warn message")
	Error("global error message")

	for _, msg := range []string{"global debug message", "global info message", "global warn message", "global error message"} {
		assert.Contains(t, buf.String(), msg)
	}

	SetDefault(nil)
	require.NotNil(t, GetDefault())
	assert.NotPanics(t, func() { Info("dropped") })
}

// TestConcurrentLogging 测试并发写日志和调整级别
func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.SetLevel(INFO)
			logger.Info("concurrent message from goroutine %d", id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, strings.Count(buf.String(), "concurrent message"))
}

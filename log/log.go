// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the module-scoped leveled logger used across every
// tinychain package. Each package declares its logger once at the top of
// the file via NewModuleLogger and logs structured key/value pairs.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Module identifies the subsystem a Logger speaks for. New modules are
// added here as the repo grows.
type Module string

const (
	ModuleCommon     Module = "common"
	ModuleBlockchain Module = "blockchain"
	ModuleTxPool     Module = "txpool"
	ModuleMiner      Module = "miner"
	ModuleSyncer     Module = "syncer"
	ModuleGossip     Module = "gossip"
	ModuleNode       Module = "node"
	ModuleAPI        Module = "api"
	ModuleStorage    Module = "storage"
	ModuleWallet     Module = "wallet"
	ModuleCmdUtils   Module = "cmdutils"
)

type Level int

const (
	LvlError Level = iota
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

var levelNames = map[Level]string{
	LvlError: "ERROR",
	LvlWarn:  "WARN",
	LvlInfo:  "INFO",
	LvlDebug: "DEBUG",
	LvlTrace: "TRACE",
}

var levelColors = map[Level]*color.Color{
	LvlError: color.New(color.FgRed, color.Bold),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgWhite),
}

var (
	mu        sync.Mutex
	globalLvl = LvlInfo
	out       io.Writer = colorable.NewColorableStdout()
	useColor            = isatty.IsTerminal(os.Stdout.Fd())
)

// SetGlobalLevel controls the minimum level emitted by every Logger.
func SetGlobalLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	globalLvl = l
}

// SetOutput redirects all loggers to w, used by tests to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Logger is a module-scoped leveled logger with structured key/value context.
type Logger struct {
	module Module
	ctx    []interface{}
}

// NewModuleLogger returns the logger for module.
func NewModuleLogger(module Module) *Logger {
	return &Logger{module: module}
}

// New returns a child logger with additional static key/value context.
func (l *Logger) New(ctx ...interface{}) *Logger {
	nctx := make([]interface{}, 0, len(l.ctx)+len(ctx))
	nctx = append(nctx, l.ctx...)
	nctx = append(nctx, ctx...)
	return &Logger{module: l.module, ctx: nctx}
}

func (l *Logger) Error(msg string, ctx ...interface{}) { l.log(LvlError, msg, ctx) }
func (l *Logger) Warn(msg string, ctx ...interface{})  { l.log(LvlWarn, msg, ctx) }
func (l *Logger) Info(msg string, ctx ...interface{})  { l.log(LvlInfo, msg, ctx) }
func (l *Logger) Debug(msg string, ctx ...interface{}) { l.log(LvlDebug, msg, ctx) }
func (l *Logger) Trace(msg string, ctx ...interface{}) { l.log(LvlTrace, msg, ctx) }

func (l *Logger) log(lvl Level, msg string, extra []interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl > globalLvl {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000")
	caller := callerFrame()

	allCtx := make([]interface{}, 0, len(l.ctx)+len(extra))
	allCtx = append(allCtx, l.ctx...)
	allCtx = append(allCtx, extra...)

	line := fmt.Sprintf("%s [%-5s] [%s] %s", ts, levelNames[lvl], l.module, msg)
	for i := 0; i+1 < len(allCtx); i += 2 {
		line += fmt.Sprintf(" %v=%v", allCtx[i], allCtx[i+1])
	}
	line += fmt.Sprintf(" caller=%s", caller)

	if useColor {
		fmt.Fprintln(out, levelColors[lvl].Sprint(line))
	} else {
		fmt.Fprintln(out, line)
	}
}

// callerFrame reports the first call site outside this package.
func callerFrame() string {
	call := stack.Caller(3)
	return fmt.Sprintf("%+v", call)
}

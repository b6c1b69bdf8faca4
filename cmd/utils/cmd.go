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

// Package utils holds small process-lifecycle helpers shared by
// cmd/tinychain.
package utils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/node"
)

var logger = log.NewModuleLogger(log.ModuleCmdUtils)

// Fatalf formats a message to standard error and exits the program. The
// message is also printed to standard output if standard error is
// redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// StartNode starts n's background loops and the HTTP server, then blocks
// until a SIGINT/SIGTERM triggers shutdown and that shutdown completes.
// Repeated interrupts during shutdown escalate to a forced exit.
func StartNode(n *node.Node, httpServer *http.Server) {
	n.Start()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	logger.Info("got interrupt, shutting down")

	done := make(chan struct{})
	go func() {
		n.Stop()
		_ = httpServer.Close()
		close(done)
	}()
	for i := 10; ; i-- {
		select {
		case <-done:
			return
		case <-sigc:
			if i <= 1 {
				Fatalf("too many interrupts, exiting")
			}
			logger.Warn("already shutting down, interrupt more to force exit", "times", i-1)
		}
	}
}

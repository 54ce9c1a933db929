/*
Copyright 2026 the PetFriends API Test Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/petfriends-qa/petfriends-api-tests/pkg/fake"
)

type options struct {
	listenAddress string
	email         string
	password      string
	development   bool
}

func (o *options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.listenAddress, "listen-address", ":8080", "Address to serve the fake PetFriends API on.")
	f.StringVar(&o.email, "email", fake.DefaultEmail, "Email of the seeded test account.")
	f.StringVar(&o.password, "password", fake.DefaultPassword, "Password of the seeded test account.")
	f.BoolVar(&o.development, "development", false, "Use human readable, debug level logging.")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func main() {
	var options options

	options.AddFlags(pflag.CommandLine)

	pflag.Parse()

	zl, err := newLogger(options.development)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() {
		_ = zl.Sync()
	}()

	logger := zapr.NewLogger(zl).WithName("petfriends-fake")

	store := fake.NewStore()
	store.AddAccount(options.email, options.password)

	server := &http.Server{
		Addr:              options.listenAddress,
		Handler:           fake.NewRouter(store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "shutdown failed")
		}
	}()

	logger.Info("service starting", "address", options.listenAddress, "email", options.email)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(err, "server failed")
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("service stopped")
}

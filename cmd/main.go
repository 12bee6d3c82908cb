// Copyright 2025 The Catalyst Authors
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

// Package main runs the catalyst lifecycle service: the GitHub webhook
// receiver, the environment API and the optional preview namespace janitor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap/zapcore"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/catalyst-dev/catalyst/internal/cluster"
	"github.com/catalyst-dev/catalyst/internal/config"
	"github.com/catalyst-dev/catalyst/internal/cost"
	"github.com/catalyst-dev/catalyst/internal/github"
	"github.com/catalyst-dev/catalyst/internal/janitor"
	"github.com/catalyst-dev/catalyst/internal/lifecycle"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/observability"
	"github.com/catalyst-dev/catalyst/internal/store"
	"github.com/catalyst-dev/catalyst/internal/store/memory"
	"github.com/catalyst-dev/catalyst/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	opts, err := logOptions(cfg.Log)
	if err != nil {
		return err
	}
	logf.SetLogger(crzap.New(opts...))
	log := logf.Log.WithName("setup")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}

	handle, err := cluster.Connect(cluster.Options{
		Name:       cfg.Cluster.Name,
		Kubeconfig: cfg.Cluster.Kubeconfig,
		Context:    cfg.Cluster.Context,
	})
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}
	clusters := cluster.NewProvider(handle)

	metrics := observability.NewMetrics()

	var gh github.Client
	if cfg.GitHub.Token != "" {
		gh = github.NewClient(cfg.GitHub.Token)
	}

	svc := lifecycle.NewService(st, clusters.Get(""))
	svc.Metrics = metrics
	svc.Estimator = cost.NewEstimator(nil)
	svc.Names = names.Config{
		Separator:  cfg.Names.Separator,
		MinNumber:  cfg.Names.MinNumber,
		MaxNumber:  cfg.Names.MaxNumber,
		MaxRetries: cfg.Names.MaxRetries,
	}
	if gh != nil {
		svc.Commits = gh
	}

	trigger := webhook.NewTrigger(handle.Client)
	trigger.Environments = svc
	trigger.Metrics = metrics
	if gh != nil {
		trigger.Status = gh
	}

	server := webhook.NewServer(cfg.Server.Address, cfg.Server.Port, trigger, svc, cfg.Webhook.Secret)
	server.Metrics = metrics
	server.ShutdownTimeout = cfg.Server.ShutdownTimeout

	if cfg.Janitor.Enabled {
		sweeper := janitor.NewSweeper(handle.Client, gh, cfg.Janitor.Interval)
		go func() {
			if err := sweeper.Start(ctx); err != nil {
				log.Error(err, "Janitor stopped")
			}
		}()
	}

	log.Info("Starting catalyst lifecycle service",
		"addr", cfg.Server.Address,
		"port", cfg.Server.Port,
		"cluster", cfg.Cluster.Name,
		"janitor", cfg.Janitor.Enabled)

	return server.Start(ctx)
}

// logOptions maps the log configuration onto controller-runtime's zap
// options. Console format is for humans at a terminal; production runs JSON.
func logOptions(cfg config.LogConfig) ([]crzap.Opts, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log.level %q: %w", cfg.Level, err)
	}
	return []crzap.Opts{
		crzap.Level(level),
		crzap.UseDevMode(cfg.Format == "console"),
	}, nil
}

// buildStore loads the projects fixture when one is configured. An empty
// store still serves the webhook namespace contract; only the environment
// API needs project records.
func buildStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.ProjectsFile == "" {
		return memory.New(), nil
	}
	st, err := memory.Load(cfg.ProjectsFile)
	if err != nil {
		return nil, fmt.Errorf("loading projects file %s: %w", cfg.ProjectsFile, err)
	}
	return st, nil
}

package di_test

import (
	"context"
	"sort"
	"testing"

	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

type recordingProvider struct {
	requested []string
}

func (r *recordingProvider) GetLogger(name string) interfaces.Logger {
	r.requested = append(r.requested, name)
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger   { return n }
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }

func TestContainerRequestsModuleLoggers(t *testing.T) {
	rec := &recordingProvider{}
	cfg := runtimeconfig.DefaultConfig()

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("new container: %v", err)
	}

	want := []string{
		"marketplace.catalog",
		"marketplace.onboarding",
		"marketplace.pricing",
		"marketplace.proposal",
		"marketplace.uploads",
	}
	got := append([]string(nil), rec.requested...)
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("expected %d logger requests, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Fatalf("expected module %s at %d, got %v", name, i, got)
		}
	}
}

func TestContainerBuildsConsoleProviderFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected console logger provider")
	}
}

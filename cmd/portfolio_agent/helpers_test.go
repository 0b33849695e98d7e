package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/portfolio-builder/internal/blocks"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/llm/llmtest"
	"github.com/jonathan/portfolio-builder/internal/objectstore"
)

const testHTML = `<!DOCTYPE html><html><head><title>Jane Doe</title></head><body><section id="about"><h2>About</h2></section></body></html>`

func testReply() string {
	return blocks.Wrap(blocks.TagHTML, testHTML) + "\n" +
		blocks.Wrap(blocks.TagCSS, "body { margin: 0; }") + "\n" +
		blocks.Wrap(blocks.TagJS, "console.log('ready');")
}

// isolateEnv clears every variable the CLI reads and sets a test key
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range config.APIKeyEnvVars {
		t.Setenv(name, "")
	}
	for _, name := range []string{config.EnvS3Bucket, config.EnvS3Endpoint, config.EnvS3Region, config.EnvS3AccessKey, config.EnvS3SecretKey} {
		t.Setenv(name, "")
	}
	t.Setenv(config.APIKeyEnvVars[0], "test-key")
}

// useClient swaps the model client factory for the duration of a test and
// records the configuration it was built with
func useClient(t *testing.T, client llm.Client) *config.Config {
	t.Helper()
	var got config.Config
	original := newClient
	newClient = func(_ context.Context, cfg config.Config) (llm.Client, error) {
		got = cfg
		return client, nil
	}
	t.Cleanup(func() { newClient = original })
	return &got
}

func usePublisher(t *testing.T, pub objectstore.Publisher) {
	t.Helper()
	original := newPublisher
	newPublisher = func(context.Context, config.S3Config) (objectstore.Publisher, error) {
		return pub, nil
	}
	t.Cleanup(func() { newPublisher = original })
}

func newStub() *llmtest.Stub {
	return &llmtest.Stub{Analysis: "Jane is a backend engineer.", Code: testReply()}
}

// resetFlags restores every flag to its default so commands can run repeatedly
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	settings = config.Config{}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

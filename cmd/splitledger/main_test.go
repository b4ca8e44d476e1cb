package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/logging"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		DataPath:  filepath.Join(t.TempDir(), "data", "ledger"),
		Backend:   backend,
		Delimiter: models.DefaultDelimiter,
		MaxAmount: decimal.NewFromInt(10000),
		LogLevel:  "error",
	}
}

func TestRunSession(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			input := strings.Join([]string{
				"add d/lunch p/John n/Jane a/30 n/Jake a/20",
				"add d/dinner p/Jane n/John a/20 n/Jake a/20",
				"paid n/Nobody i/1",
				"exit",
				"settle",
			}, "\n")
			var out bytes.Buffer
			if err := run(context.Background(), cfg, logging.Discard(), strings.NewReader(input), &out); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			got := out.String()
			if !strings.Contains(got, "Loaded 0 expense(s)") {
				t.Errorf("missing load banner in %q", got)
			}
			if !strings.Contains(got, "Error (state)") {
				t.Errorf("missing error report in %q", got)
			}
			if strings.Contains(got, "pays") {
				t.Errorf("commands after exit were run: %q", got)
			}

			// a second session sees the saved records
			out.Reset()
			if err := run(context.Background(), cfg, logging.Discard(), strings.NewReader("settle\n"), &out); err != nil {
				t.Fatalf("second run failed: %v", err)
			}
			got = out.String()
			if !strings.Contains(got, "Loaded 2 expense(s)") || !strings.Contains(got, "Jake pays John 30.00") {
				t.Errorf("second session output = %q", got)
			}
		})
	}
}

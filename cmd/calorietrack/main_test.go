package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"calorietrack/internal/config"
	"calorietrack/internal/domain"
	"calorietrack/internal/logging"
	"calorietrack/internal/server"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_EndToEnd(t *testing.T) {
	h, closeFn, err := server.Build(context.Background(), &config.Server{
		Store:     config.StoreMemory,
		SeedFoods: true,
		Auth:      config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn() //nolint:errcheck
	api := httptest.NewServer(h)
	defer api.Close()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CALORIETRACK_API_URL", api.URL)
	t.Setenv("CALORIETRACK_DB", filepath.Join(dir, "device.db"))
	t.Setenv("LOG_LEVEL", "error")

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"health"}, "ok"},
		{[]string{"guest"}, "Started as Guest user"},
		{[]string{"meals", "add", "food-001", "200", "--type", "lunch"}, "336 kcal"},
		{[]string{"signup", "--email", "a@example.com", "--password", "secret123"}, "Uploaded settings and 1 meals (0 failed)"},
		{[]string{"whoami"}, "a@example.com"},
		{[]string{"signout"}, "Signed out."},
		{[]string{"signin", "--password", "secret123"}, "Restored 1 meals"},
		{[]string{"summary"}, "White rice"},
		{[]string{"meals", "list"}, "White rice"},
		{[]string{"meals", "list", "--remote"}, "White rice"},
		{[]string{"settings", "set", "--weight", "154lb"}, "Saved."},
		{[]string{"settings", "show"}, "69.9 kg"},
		{[]string{"sync", "pull"}, "Settings restored, 1 meals restored"},
		{[]string{"settings", "show"}, "69.9 kg"},
	}
	for _, s := range steps {
		out, err := run(t, s.args...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", s.args, err, out)
		}
		if !strings.Contains(out, s.want) {
			t.Fatalf("%v: output %q does not contain %q", s.args, out, s.want)
		}
	}
}

func TestMealsList_Flags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CALORIETRACK_API_URL", "http://127.0.0.1:1")
	t.Setenv("CALORIETRACK_DB", filepath.Join(dir, "device.db"))
	t.Setenv("LOG_LEVEL", "error")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"from without to", []string{"meals", "list", "--from", "2025-03-01"}, "--from and --to go together"},
		{"bad date", []string{"meals", "list", "--from", "March", "--to", "2025-03-02"}, "YYYY-MM-DD"},
		{"remote signed out", []string{"meals", "list", "--remote"}, "sign in first"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want %q", err, tc.want)
			}
		})
	}

	out, err := run(t, "meals", "list")
	if err != nil || !strings.Contains(out, "No meals.") {
		t.Errorf("empty list: %q, %v", out, err)
	}
}

func TestDefaultMealType(t *testing.T) {
	tests := []struct {
		hour int
		want domain.MealType
	}{
		{7, domain.Breakfast},
		{12, domain.Lunch},
		{19, domain.Dinner},
		{16, domain.Snack},
		{2, domain.Snack},
	}
	for _, tc := range tests {
		got := defaultMealType(time.Date(2025, 1, 1, tc.hour, 0, 0, 0, time.Local))
		if got != tc.want {
			t.Errorf("hour %d: got %s, want %s", tc.hour, got, tc.want)
		}
	}
}

func TestParseGrams(t *testing.T) {
	if v, err := parseGrams("150g"); err != nil || v != 150 {
		t.Errorf("parseGrams(150g) = %v, %v", v, err)
	}
	if _, err := parseGrams("lots"); err == nil {
		t.Error("expected error")
	}
}

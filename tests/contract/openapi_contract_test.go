package contract_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

type openAPISpec struct {
	Paths      map[string]map[string]json.RawMessage `json:"paths"`
	Components struct {
		Schemas map[string]json.RawMessage `json:"schemas"`
	} `json:"components"`
}

func TestDashboardSpecificationIncludesAllEndpoints(t *testing.T) {
	spec := loadSpec(t, "docs/api/dashboard.json")

	requiredPaths := []string{
		"/api/v1/health",
		"/api/v2/dashboard/snapshot",
		"/api/v2/dashboard/quizzes",
		"/api/v2/dashboard/challenges",
		"/api/v2/dashboard/challenges/{id}",
		"/api/v2/dashboard/learning-path",
		"/api/v2/dashboard/refresh",
		"/ws/dashboard",
		"/metrics",
	}

	for _, path := range requiredPaths {
		if _, ok := spec.Paths[path]; !ok {
			t.Fatalf("expected dashboard spec to contain path %s", path)
		}
	}

	for _, schema := range []string{"DashboardSnapshot", "LearningPathItem", "Quiz", "Challenge", "ResourceState"} {
		if _, ok := spec.Components.Schemas[schema]; !ok {
			t.Fatalf("expected dashboard spec to contain schema %s", schema)
		}
	}
}

func loadSpec(t *testing.T, relative string) openAPISpec {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("failed to resolve caller")
	}
	base := filepath.Join(filepath.Dir(filename), "..", "..")
	fullPath := filepath.Join(base, relative)

	raw, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", fullPath, err)
	}
	var spec openAPISpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("failed to unmarshal %s: %v", fullPath, err)
	}
	return spec
}

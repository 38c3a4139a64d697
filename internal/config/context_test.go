package config

import (
	"context"
	"strings"
	"testing"
)

func TestCorrelationIdContext(t *testing.T) {

	var TestCases = []struct {
		description string
		value       string
	}{
		{
			description: "test set and get id",
			value:       "abc-123456-123456",
		},
		{
			description: "subject type as id suffix",
			value:       "MainScreen",
		},
	}

	for _, tc := range TestCases {

		ctx := SetContextCorrelationId(context.Background(), tc.value)
		result := GetContextCorrelationId(ctx)

		if !strings.HasSuffix(result, "-"+tc.value) {
			t.Error(tc.description)
		}
		if GetContextTimeCreated(ctx) == -1 {
			t.Errorf("%s: created time not set", tc.description)
		}
	}
}

func TestAppendToCid(t *testing.T) {

	ctx := SetContextCorrelationId(context.Background(), "testId")
	if !strings.Contains(GetContextCorrelationId(ctx), "testId") {
		t.Error("initial cid")
	}

	ctx = AppendToContextCorrelationId(ctx, "someText")
	if !strings.Contains(GetContextCorrelationId(ctx), "testId-someText") {
		t.Error("appended cid")
	}
}

func TestCidUnset(t *testing.T) {
	if got := GetContextCorrelationId(context.Background()); got != "no-id" {
		t.Errorf("expected no-id, got %s", got)
	}
	if got := GetContextTimeCreated(context.Background()); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

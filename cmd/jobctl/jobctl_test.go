package main

import (
	"bytes"
	"strings"
	"testing"

	"jobpilot/internal/autoapply"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &autoapply.Result{
		Message:      "Auto-apply completed: 1 applications sent",
		Applications: 1,
		JobsFound:    3,
		Failed:       1,
		Skipped:      1,
		Cap:          5,
		Results: []autoapply.JobResult{
			{JobTitle: "Go Engineer", Company: "Acme", Outcome: autoapply.OutcomeSent},
			{JobTitle: "SRE", Company: "Globex", Outcome: autoapply.OutcomeFailed, Error: "smtp timeout"},
		},
	})
	out := buf.String()
	for _, want := range []string{
		"Auto-apply completed: 1 applications sent",
		"found 3, sent 1, failed 1, skipped 1 (cap 5)",
		"Go Engineer @ Acme",
		"SRE @ Globex: smtp timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"migrate": false, "plan": false, "token": false, "apply": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

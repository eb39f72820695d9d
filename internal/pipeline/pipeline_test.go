package pipeline

import (
	"context"
	"errors"
	"testing"
)

// recordingStep appends its name to a shared log when executed.
type recordingStep struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, scrape *Scrape) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var log []string
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log},
			&recordingStep{name: "third", log: &log},
		)

		scrape := NewScrape("https://www.airbnb.com/rooms/1")
		if err := p.Execute(context.Background(), scrape); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(log) != len(want) {
			t.Fatalf("executed %d steps, want %d", len(log), len(want))
		}
		for i, name := range want {
			if log[i] != name {
				t.Errorf("step[%d] = %q, want %q", i, log[i], name)
			}
		}
		if len(scrape.PerformedSteps) != 3 {
			t.Errorf("PerformedSteps = %v, want 3 entries", scrape.PerformedSteps)
		}
	})

	t.Run("stops at first failing step", func(t *testing.T) {
		t.Parallel()

		var log []string
		stepErr := errors.New("boom")
		p := New()
		p.AddSteps(
			&recordingStep{name: "first", log: &log},
			&recordingStep{name: "second", log: &log, err: stepErr},
			&recordingStep{name: "third", log: &log},
		)

		scrape := NewScrape("https://www.airbnb.com/rooms/1")
		err := p.Execute(context.Background(), scrape)
		if !errors.Is(err, stepErr) {
			t.Fatalf("Execute() error = %v, want %v", err, stepErr)
		}

		if len(log) != 2 {
			t.Errorf("executed %d steps, want 2 (third must not run)", len(log))
		}
		if scrape.Error == nil || scrape.ErrorMessage == "" {
			t.Error("scrape error fields not recorded")
		}
		// The failing step is not counted as performed.
		if len(scrape.PerformedSteps) != 1 {
			t.Errorf("PerformedSteps = %v, want only the first step", scrape.PerformedSteps)
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var log []string
		p := New()
		p.AddStep(&recordingStep{name: "never", log: &log})

		scrape := NewScrape("https://www.airbnb.com/rooms/1")
		err := p.Execute(ctx, scrape)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v, want context.Canceled", err)
		}
		if len(log) != 0 {
			t.Error("step executed despite cancelled context")
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var log []string
	p := New()
	if p.StepCount() != 0 {
		t.Errorf("StepCount() = %d, want 0", p.StepCount())
	}

	p.AddSteps(
		&recordingStep{name: "fetch", log: &log},
		&recordingStep{name: "store", log: &log},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}
	names := p.StepNames()
	if names[0] != "fetch" || names[1] != "store" {
		t.Errorf("StepNames() = %v", names)
	}
}

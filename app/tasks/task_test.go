package tasks

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeCheckReviews)

	if task.GetType() != TaskTypeCheckReviews {
		t.Errorf("Expected type %s, got %s", TaskTypeCheckReviews, task.GetType())
	}
	if task.GetID() == "" {
		t.Error("Expected non-empty task id")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected 0 retries on a new task, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}
}

func TestTaskRetry(t *testing.T) {
	task := NewTask(TaskTypeCheckReviews)

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected no retries after reaching the maximum")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeCheckReviews)

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	time.Sleep(time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after start")
	}
}

func TestTaskIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task := NewTask(TaskTypeCheckReviews)
		id := task.GetID()
		if seen[id] {
			t.Fatalf("Duplicate task id %s", id)
		}
		seen[id] = true
	}
}

package worker

import (
	"context"
	"strconv"
	"strings"
)

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id string
	fn func(ctx context.Context) error
}

// NewFuncTask creates a task that runs fn.
func NewFuncTask(id string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{id: id, fn: fn}
}

// ID returns the task identifier.
func (t *FuncTask) ID() string {
	return t.id
}

// Execute runs the function.
func (t *FuncTask) Execute(ctx context.Context) error {
	return t.fn(ctx)
}

// indexedTask remembers a task's position so RunAll can order results.
type indexedTask struct {
	Task
	index int
}

func (t *indexedTask) ID() string {
	return indexedID(t.index, t.Task)
}

func indexedID(i int, t Task) string {
	return strconv.Itoa(i) + "#" + t.ID()
}

func splitIndexedID(s string) (int, string) {
	idx, id, _ := strings.Cut(s, "#")
	i, _ := strconv.Atoi(idx)
	return i, id
}

package lesson

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"ownership/internal/observ"
	"ownership/internal/trace"
)

// Lesson is one numbered block of the walkthrough.
type Lesson struct {
	Number  int
	Title   string
	Summary string
	run     func(ctx context.Context, n *narrator) error
}

var lessons = []Lesson{
	{Number: 1, Title: "SCOPE 1", Summary: "copying variables stored on the stack", run: scalarCopy},
	{Number: 2, Title: "SCOPE 2", Summary: "moving variables stored on the heap", run: bufferMove},
	{Number: 3, Title: "SCOPE 3", Summary: "copies and moves through function calls", run: functionCalls},
	{Number: 4, Title: "SCOPE 4", Summary: "borrowing through references", run: borrowing},
}

// All returns every lesson in order.
func All() []Lesson {
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	return out
}

// Lookup finds a lesson by number.
func Lookup(number int) (Lesson, bool) {
	for _, l := range lessons {
		if l.Number == number {
			return l, true
		}
	}
	return Lesson{}, false
}

// Options selects and instruments lessons. The zero value runs everything.
type Options struct {
	// Lessons lists lesson numbers to run, in the order given. Empty means all.
	Lessons []int
	Timer   *observ.Timer
	Logger  *zap.Logger
}

// Run prints the selected lessons to w.
func Run(ctx context.Context, w io.Writer, opts Options) error {
	selected, err := selectLessons(opts.Lessons)
	if err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "lessons", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	n := &narrator{w: w}
	for _, l := range selected {
		idx := -1
		if opts.Timer != nil {
			idx = opts.Timer.Begin(l.Title)
		}
		n.say("\n\n%s", l.Title)
		runErr := l.run(ctx, n)
		if opts.Timer != nil {
			opts.Timer.End(idx, l.Summary)
		}
		if runErr != nil {
			return fmt.Errorf("%s: %w", l.Title, runErr)
		}
		if n.err != nil {
			return fmt.Errorf("write %s: %w", l.Title, n.err)
		}
		logger.Debug("lesson finished", zap.Int("lesson", l.Number), zap.String("title", l.Title))
	}
	return nil
}

func selectLessons(numbers []int) ([]Lesson, error) {
	if len(numbers) == 0 {
		return All(), nil
	}
	out := make([]Lesson, 0, len(numbers))
	for _, num := range numbers {
		l, ok := Lookup(num)
		if !ok {
			return nil, fmt.Errorf("unknown lesson %d (expected 1-%d)", num, len(lessons))
		}
		out = append(out, l)
	}
	return out, nil
}

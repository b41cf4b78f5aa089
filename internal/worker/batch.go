package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Checker checks text or a web page and produces a report
type Checker interface {
	CheckText(ctx context.Context, text string) (*model.Report, error)
	CheckURL(ctx context.Context, rawURL string) (*model.Report, error)
}

// Input is one batch entry: a URL or a path to a text file
type Input struct {
	Index int
	Value string
}

// IsURL reports whether the input is fetched rather than read from disk
func (in Input) IsURL() bool {
	return strings.HasPrefix(in.Value, "http://") || strings.HasPrefix(in.Value, "https://")
}

// CheckJob checks a single batch input
type CheckJob struct {
	Input   Input
	Checker Checker
}

// Execute checks the input and wraps the outcome
func (j *CheckJob) Execute(ctx context.Context) Result {
	result := &CheckResult{Input: j.Input}

	if j.Input.IsURL() {
		result.Report, result.Error = j.Checker.CheckURL(ctx, j.Input.Value)
		return result
	}

	data, err := os.ReadFile(j.Input.Value)
	if err != nil {
		result.Error = fmt.Errorf("read input: %w", err)
		return result
	}
	result.Report, result.Error = j.Checker.CheckText(ctx, string(data))
	return result
}

// CheckResult is the outcome of one batch input
type CheckResult struct {
	Input  Input
	Report *model.Report
	Error  error
}

// GetError returns the error from the check
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor checks many inputs concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// Process checks every input and returns results in input order.
// Inputs not started before ctx is cancelled are reported with ctx's error.
func (b *BatchProcessor) Process(ctx context.Context, values []string) []*CheckResult {
	if len(values) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, value := range values {
			job := &CheckJob{Input: Input{Index: i, Value: value}, Checker: b.checker}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*CheckResult, len(values))
	for result := range pool.Results() {
		r := result.(*CheckResult)
		results[r.Input.Index] = r
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &CheckResult{Input: Input{Index: i, Value: values[i]}, Error: err}
		}
	}
	return results
}

// ProcessFile reads inputs from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	values, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, values), nil
}

// ReadInputsFromFile reads one URL or file path per line, skipping blank
// lines, comments, and duplicates
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var values []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			values = append(values, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return values, nil
}

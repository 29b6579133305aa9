// Package structured absorbs the unreliability of the generation service.
// It extracts JSON payloads from free-text responses, repairs the common
// syntax mistakes, and asks the service itself to fix anything that still
// fails to parse, bounded by per-shape remediation ceilings. Every component
// that expects structured output funnels through here.
package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"sockbowl/internal/llm"
)

// Remediation ceilings. Array responses carry an exact-count expectation and
// get a tighter bound than single-object responses.
const (
	MaxArrayAttempts  = 5
	MaxObjectAttempts = 10
)

// ParseError is returned when a response never became valid JSON within the
// remediation ceiling. It carries the last raw text for diagnostics.
type ParseError struct {
	Attempts int
	LastRaw  string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("structured parse failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Validator is implemented by result types that need mandatory-field checks
// immediately after decoding. A validation failure counts as a parse failure
// and triggers remediation.
type Validator interface {
	Validate() error
}

// Parser turns raw generation output into validated values.
type Parser struct {
	client llm.Client
	log    *zap.Logger
}

// NewParser creates a Parser that uses client for remediation passes.
func NewParser(client llm.Client, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{client: client, log: log}
}

// ParseObject extracts a JSON object from raw and decodes it into out.
// fieldHint describes the expected fields and is included in remediation
// prompts. On failure the offending text is sent back to the generation
// service for repair, up to MaxObjectAttempts times.
func (p *Parser) ParseObject(ctx context.Context, raw, fieldHint string, out any) error {
	return p.parse(ctx, raw, shape{kind: kindObject, fieldHint: fieldHint}, out)
}

// ParseArray extracts a JSON array from raw and decodes it into out, which
// must be a pointer to a slice. When expectedCount > 0, a shorter array is
// treated as a parse failure too. Ceiling: MaxArrayAttempts.
func (p *Parser) ParseArray(ctx context.Context, raw string, expectedCount int, fieldHint string, out any) error {
	return p.parse(ctx, raw, shape{kind: kindArray, expectedCount: expectedCount, fieldHint: fieldHint}, out)
}

type shapeKind int

const (
	kindObject shapeKind = iota
	kindArray
)

type shape struct {
	kind          shapeKind
	expectedCount int
	fieldHint     string
}

func (p *Parser) parse(ctx context.Context, raw string, sh shape, out any) error {
	maxAttempts := MaxObjectAttempts
	if sh.kind == kindArray {
		maxAttempts = MaxArrayAttempts
	}

	current := raw
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := p.decodeOnce(current, sh, out)
		if err == nil {
			if attempt > 1 {
				p.log.Info("structured parse recovered", zap.Int("attempt", attempt))
			}
			return nil
		}
		lastErr = err
		p.log.Warn("structured parse attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}

		fixed, remErr := p.remediate(ctx, current, sh, err)
		if remErr != nil {
			// The generation call itself failed; that is fatal, not a
			// parse problem to keep retrying.
			return remErr
		}
		current = fixed
	}

	return &ParseError{Attempts: maxAttempts, LastRaw: current, Err: lastErr}
}

func (p *Parser) decodeOnce(raw string, sh shape, out any) error {
	var payload string
	if sh.kind == kindArray {
		payload = ExtractArray(raw)
	} else {
		payload = ExtractObject(raw)
	}
	payload = Sanitize(payload)

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if sh.kind == kindArray && sh.expectedCount > 0 {
		v := reflect.ValueOf(out)
		if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
			if got := v.Elem().Len(); got < sh.expectedCount {
				return fmt.Errorf("incomplete array: got %d items, expected %d", got, sh.expectedCount)
			}
		}
	}

	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	}

	return nil
}

// remediate sends the offending text plus the parse error back to the
// generation service with a fix-only instruction.
func (p *Parser) remediate(ctx context.Context, malformed string, sh shape, cause error) (string, error) {
	var b strings.Builder
	b.WriteString("The following JSON has a syntax error and failed to parse.\n\n")
	b.WriteString("ERROR: ")
	b.WriteString(cause.Error())
	b.WriteString("\n\nMALFORMED JSON:\n")
	b.WriteString(malformed)
	b.WriteString("\n\nREQUIREMENTS:\n")
	b.WriteString("1. Fix ALL JSON syntax errors\n")
	if sh.kind == kindArray {
		if sh.expectedCount > 0 {
			fmt.Fprintf(&b, "2. Ensure it's a valid JSON array with exactly %d items\n", sh.expectedCount)
		} else {
			b.WriteString("2. Ensure it's a valid JSON array\n")
		}
	} else {
		b.WriteString("2. Ensure it's a valid JSON object\n")
	}
	if sh.fieldHint != "" {
		fmt.Fprintf(&b, "3. Expected fields: %s\n", sh.fieldHint)
	} else {
		b.WriteString("3. Keep the existing fields\n")
	}
	b.WriteString("4. Remove trailing commas\n")
	b.WriteString("5. Ensure all strings are properly quoted\n")
	b.WriteString("6. Ensure all property names are in double quotes\n")
	b.WriteString("7. Do NOT change the content/meaning, only fix syntax\n\n")
	b.WriteString("Return ONLY the fixed JSON, nothing else.\n")

	fixed, err := p.client.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("remediation request failed: %w", err)
	}
	p.log.Info("received remediated JSON", zap.Int("length", len(fixed)))
	return fixed, nil
}

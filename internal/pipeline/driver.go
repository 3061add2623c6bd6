package pipeline

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/suykerbuyk/examnotes/internal/llm"
	"github.com/suykerbuyk/examnotes/internal/logger"
	"github.com/suykerbuyk/examnotes/internal/notes"
	"github.com/suykerbuyk/examnotes/internal/sanitize"
)

// Completer sends a prompt to a model and returns its raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt notes.Prompt) (string, error)
}

// Options configures a Driver.
type Options struct {
	// Model is only used for logging.
	Model string
	Retry RetryPolicy
}

// Driver runs one notes request through validation and generation.
type Driver struct {
	client Completer
	opts   Options
	log    *logger.Logger
}

// New creates a Driver.
func New(client Completer, opts Options, log *logger.Logger) *Driver {
	if log == nil {
		log = logger.Nop()
	}
	return &Driver{client: client, opts: opts, log: log}
}

// WithRunID returns a copy of d whose log lines carry run_id. An empty id
// gets a fresh UUID.
func (d *Driver) WithRunID(id string) *Driver {
	if id == "" {
		id = uuid.NewString()
	}
	cp := *d
	cp.log = d.log.With("run_id", id)
	return &cp
}

// Run reads one request from stdin, writes exactly one JSON object to stdout
// and returns the process exit code.
func (d *Driver) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) int {
	d = d.WithRunID("")

	data, err := io.ReadAll(stdin)
	if err != nil {
		return d.fail(stdout, &notes.InputParseError{Err: err})
	}

	req, err := Decode(data)
	if err != nil {
		return d.fail(stdout, err)
	}

	n, err := d.Generate(ctx, req)
	if err != nil {
		return d.fail(stdout, err)
	}

	if err := writeJSON(stdout, n); err != nil {
		d.log.Error("write result", "error", err)
		return 1
	}
	d.log.Info("notes generated", "title", n.Title)
	return 0
}

// Decode parses and validates a raw request body, including the trimmed
// content length gate.
func Decode(data []byte) (notes.Request, error) {
	v, err := notes.DecodeRequest(data)
	if err != nil {
		return notes.Request{}, err
	}
	req, err := notes.ValidateRequest(v)
	if err != nil {
		return notes.Request{}, err
	}
	if err := req.CheckContentLength(); err != nil {
		return notes.Request{}, err
	}
	return req, nil
}

// Generate runs up to MaxAttempts generation attempts. Only the last
// attempt's error is returned.
func (d *Driver) Generate(ctx context.Context, req notes.Request) (notes.Notes, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		d.log.Info("generation attempt", "attempt", attempt, "model", d.opts.Model)

		n, err := d.attempt(ctx, req)
		if err == nil {
			return n, nil
		}
		lastErr = err

		kind := notes.KindOf(err)
		fields := []interface{}{"attempt", attempt, "kind", kind.String(), "error", sanitize.Secrets(err.Error())}
		if status, ok := llm.IsAPIError(err); ok {
			fields = append(fields, "status", status)
		}
		d.log.Warn("generation attempt failed", fields...)

		if !d.opts.Retry.allows(kind) || ctx.Err() != nil {
			break
		}
	}
	return notes.Notes{}, lastErr
}

func (d *Driver) attempt(ctx context.Context, req notes.Request) (notes.Notes, error) {
	raw, err := d.client.Complete(ctx, notes.BuildPrompt(req))
	if err != nil {
		return notes.Notes{}, classify(err)
	}

	n, err := notes.ParseNotes(raw)
	if err != nil {
		return notes.Notes{}, &notes.GenerationError{Kind: notes.KindSchema, Err: err}
	}
	n.Normalize()
	return n, nil
}

func classify(err error) error {
	var ge *notes.GenerationError
	if errors.As(err, &ge) {
		return err
	}
	if errors.Is(err, llm.ErrEmptyResponse) {
		return &notes.GenerationError{Kind: notes.KindUpstreamContent, Err: err}
	}
	return &notes.GenerationError{Kind: notes.KindTransport, Err: err}
}

// Message renders err as the user-facing error text.
func Message(err error) string {
	var (
		pe *notes.InputParseError
		ve *notes.ValidationError
	)
	switch {
	case errors.As(err, &pe):
		return "Invalid request body: " + pe.Error()
	case errors.As(err, &ve):
		return "Validation error: " + ve.Error()
	case errors.Is(err, notes.ErrContentTooShort):
		return notes.ErrContentTooShort.Error()
	default:
		return "Failed to generate valid notes: " + err.Error()
	}
}

// IsRequestError reports whether err was caused by the request itself rather
// than by generation.
func IsRequestError(err error) bool {
	var (
		pe *notes.InputParseError
		ve *notes.ValidationError
	)
	return errors.As(err, &pe) || errors.As(err, &ve) || errors.Is(err, notes.ErrContentTooShort)
}

// ErrorBody is the failure shape written to stdout.
type ErrorBody struct {
	Error string `json:"error"`
}

func (d *Driver) fail(w io.Writer, err error) int {
	msg := Message(err)
	if IsRequestError(err) {
		d.log.Warn("request rejected", "error", msg)
	} else {
		d.log.Error("generation failed", "error", sanitize.Secrets(msg))
	}
	if werr := writeJSON(w, ErrorBody{Error: msg}); werr != nil {
		d.log.Error("write error result", "error", werr)
	}
	return 1
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

package scene

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hull/pkg/logging"
)

// EvalError is a problem in the scene source, such as a parse error, an
// undefined symbol or a shape that cannot be built.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Evaluator runs scene source. Concurrent calls are allowed, but only the
// most recently started evaluation returns a scene; older ones report that
// they were superseded.
type Evaluator struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	logger     *log.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout bounds each evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// NewEvaluator returns an Evaluator with DefaultTimeout.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

// Evaluate is shorthand for a one-off evaluation with default settings.
func Evaluate(source string) (*Scene, []EvalError, error) {
	return NewEvaluator().Evaluate(source)
}

// Evaluate builds a Scene from source.
//
// Problems in the source come back as EvalErrors with a nil scene. The
// error return is reserved for timeouts, panics, cancellation and
// superseded evaluations.
func (e *Evaluator) Evaluate(source string) (*Scene, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with cancellation.
func (e *Evaluator) EvaluateContext(ctx context.Context, source string) (*Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		sc, evalErrs := evaluate(source)
		ch <- evalResult{scene: sc, errors: evalErrs}
	}()

	sc, evalErrs, err := waitWithTimeout(ctx, ch, e.timeout, gen, &e.mu, &e.generation)
	switch {
	case err != nil:
		e.logger.Warn("scene evaluation failed", "err", err)
	case len(evalErrs) > 0:
		e.logger.Debug("scene has errors", "count", len(evalErrs), "first", evalErrs[0])
	default:
		e.logger.Debug("scene evaluated", "shapes", sc.Len(), "queries", len(sc.Queries))
	}
	return sc, evalErrs, err
}

func evaluate(source string) (*Scene, []EvalError) {
	sc := New()
	if strings.TrimSpace(source) == "" {
		return sc, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, sc)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}
	}
	return sc, nil
}

var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// parseZygomysError pulls a line number out of a zygomys error message
// when one is present.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

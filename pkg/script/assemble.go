package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sheetscript/pkg/dialect"
)

// Generator assembles scripts. The zero value is not usable; call New.
type Generator struct {
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = New()

// Generate assembles a script with the default generator.
func Generate(d *dialect.Dialect, req Request) (*Result, error) {
	return defaultGenerator.Generate(d, req)
}

// Generate assembles one statement per qualifying row of req.
//
// Datasets of zero or one row produce an empty result. The returned error
// is non-nil only for a malformed request; row data never fails.
func (g *Generator) Generate(d *dialect.Dialect, req Request) (*Result, error) {
	if d == nil {
		return nil, ErrNilDialect
	}
	if req.Kind < KindUpdate || req.Kind > KindDelete {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(req.Kind))
	}
	if req.HeaderRows < 0 {
		return nil, ErrNegativeHeaderRows
	}

	res := &Result{}
	if len(req.Rows) <= 1 {
		return res, nil
	}

	fields := Fields(req.Mappings)
	targets := targetSet(req.Kind, req.UpdateFields)
	condField := req.ConditionField
	if req.Kind == KindInsert {
		condField = ""
	}

	var b strings.Builder
	for i := req.HeaderRows; i < len(req.Rows); i++ {
		res.Rows++
		p := Project(req.Rows[i], fields, condField, targets)

		stmt, reason := assemble(d, req, p)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Row: i, Reason: reason})
			continue
		}
		b.WriteString(stmt)
		res.Statements++
	}
	res.Script = b.String()

	g.logger.Debug("script generated",
		"dialect", d.Name,
		"kind", req.Kind.String(),
		"target", req.Target,
		"rows", res.Rows,
		"statements", res.Statements,
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// assemble renders one statement or returns the reason the row is skipped.
func assemble(d *dialect.Dialect, req Request, p Projection) (string, Reason) {
	var cond dialect.Binding
	if req.Kind.NeedsCondition() {
		if p.Condition == nil {
			return "", ReasonNoCondition
		}
		if p.Condition.Raw == "" {
			return "", ReasonEmptyCondition
		}
		cond = dialect.Binding{
			Field: req.ConditionField,
			Value: d.Encode(p.Condition.Type, p.Condition.Raw, dialect.RoleCondition),
		}
	}

	switch req.Kind {
	case KindUpdate:
		if len(p.Payload) == 0 {
			return "", ReasonNoPayload
		}
		return d.Renderer.Update(req.Target, cond, encodePayload(d, p.Payload)), ""
	case KindInsert:
		if len(p.Payload) == 0 {
			return "", ReasonNoPayload
		}
		return d.Renderer.Insert(req.Target, encodePayload(d, p.Payload)), ""
	default:
		return d.Renderer.Delete(req.Target, cond), ""
	}
}

func encodePayload(d *dialect.Dialect, pairs []Pair) []dialect.Binding {
	out := make([]dialect.Binding, len(pairs))
	for i, p := range pairs {
		out[i] = dialect.Binding{Field: p.Field, Value: d.Encode(p.Type, p.Raw, dialect.RolePayload)}
	}
	return out
}

// Package ingest accepts raw connection observations from producers
// (manual entry, the AI screenshot pipeline) and forwards the valid ones
// to the graph engine. Producers are imperfect: missing fields and
// nonsense values are rejected with a diagnostic, never an error that
// stops intake.
package ingest

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmorley/portalmap/pkg/graph"
	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/metrics"
)

// Observation is one raw portal sighting as a producer delivered it.
// Pointer fields distinguish "absent" from zero values: an AI extraction
// that failed to read a field sends nil, not an empty string.
type Observation struct {
	ID          uuid.UUID `json:"id"`
	Origin      *string   `json:"origin" validate:"required"`
	Destination *string   `json:"destination" validate:"required"`
	Minutes     *int      `json:"minutesRemaining" validate:"required,gte=0"`
	Source      string    `json:"source"`
}

// Outcome labels what happened to an observation.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeSelfLoop Outcome = "self_loop"
)

// Result reports how an observation was handled.
type Result struct {
	ID        uuid.UUID
	Outcome   Outcome
	AddResult graph.AddResult
	// Reason holds the diagnostic for rejected observations.
	Reason string
}

// Accepted reports whether the observation reached the graph.
func (r Result) Accepted() bool {
	return r.Outcome == OutcomeAccepted
}

// Ingestor validates observations and applies them to the engine.
type Ingestor struct {
	engine   *graph.Engine
	logger   logging.Logger
	metrics  *metrics.Registry
	validate *validator.Validate
}

// NewIngestor creates an ingestor for the engine. Nil logger and metrics
// get safe defaults.
func NewIngestor(engine *graph.Engine, logger logging.Logger, registry *metrics.Registry) *Ingestor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Ingestor{
		engine:   engine,
		logger:   logger.With(logging.Component("ingest")),
		metrics:  registry,
		validate: validator.New(),
	}
}

// Process validates one observation and, if well-formed, applies it to
// the graph. Rejections come back in the Result; Process never fails.
func (i *Ingestor) Process(obs Observation) Result {
	if obs.ID == uuid.Nil {
		obs.ID = uuid.New()
	}

	if err := i.validate.Struct(&obs); err != nil {
		return i.reject(obs, OutcomeInvalid, formatValidationError(err))
	}

	result, err := i.engine.AddConnection(*obs.Origin, *obs.Destination, *obs.Minutes)
	switch {
	case errors.Is(err, graph.ErrSelfLoop):
		return i.reject(obs, OutcomeSelfLoop, "origin and destination are the same zone")
	case errors.Is(err, graph.ErrInvalidObservation):
		return i.reject(obs, OutcomeInvalid, "empty origin or destination")
	}

	i.metrics.RecordObservation(string(OutcomeAccepted))
	i.logger.Debug("observation applied",
		logging.String("id", obs.ID.String()),
		logging.String("source", obs.Source),
		logging.String("result", result.String()))
	return Result{ID: obs.ID, Outcome: OutcomeAccepted, AddResult: result}
}

func (i *Ingestor) reject(obs Observation, outcome Outcome, reason string) Result {
	i.metrics.RecordObservation(string(outcome))
	i.logger.Info("observation rejected",
		logging.String("id", obs.ID.String()),
		logging.String("source", obs.Source),
		logging.String("reason", reason))
	return Result{ID: obs.ID, Outcome: outcome, Reason: reason}
}

// formatValidationError flattens validator output into one diagnostic line.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("missing field %s", fe.Field())
		case "gte":
			return fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("field %s fails %s", fe.Field(), fe.Tag())
		}
	}
	return err.Error()
}

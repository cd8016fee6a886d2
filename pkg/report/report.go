// Package report records the outcome of every resolved root so a run can be
// audited later. Reports are written to one or more [Sink]s: JSON files in a
// directory ([FileSink]) or a MongoDB collection ([MongoSink]).
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	deperrors "github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/graph"
	"github.com/matzehuels/depfetch/pkg/resolve"
)

// Report is the stored form of one root's outcome.
type Report struct {
	ID          string                     `json:"id" bson:"_id"`
	RunID       string                     `json:"run_id" bson:"run_id"`
	Root        string                     `json:"root" bson:"root"`
	OK          bool                       `json:"ok" bson:"ok"`
	ErrorCode   string                     `json:"error_code,omitempty" bson:"error_code,omitempty"`
	Error       string                     `json:"error,omitempty" bson:"error,omitempty"`
	Tree        []string                   `json:"tree,omitempty" bson:"tree,omitempty"`
	Graph       *graph.Graph               `json:"graph,omitempty" bson:"graph,omitempty"`
	Artifacts   []resolve.ResolvedArtifact `json:"artifacts,omitempty" bson:"artifacts,omitempty"`
	Attachments []Attachment               `json:"attachments,omitempty" bson:"attachments,omitempty"`
	StartedAt   time.Time                  `json:"started_at" bson:"started_at"`
	DurationMS  int64                      `json:"duration_ms" bson:"duration_ms"`
}

// Attachment is the stored form of one attachment fetch.
type Attachment struct {
	Artifact string `json:"artifact" bson:"artifact"`
	Kind     string `json:"kind" bson:"kind"`
	Found    bool   `json:"found" bson:"found"`
	Path     string `json:"path,omitempty" bson:"path,omitempty"`
}

// NewRunID returns an identifier shared by all reports of one invocation.
func NewRunID() string {
	return uuid.New().String()
}

// FromOutcome builds the report for o.
func FromOutcome(runID string, o resolve.Outcome) *Report {
	r := &Report{
		ID:         uuid.New().String(),
		RunID:      runID,
		Root:       o.Root.Coordinate.String(),
		OK:         o.OK(),
		Tree:       o.Lines,
		StartedAt:  o.StartedAt.UTC(),
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		r.ErrorCode = string(deperrors.GetCode(o.Err))
		r.Error = o.Err.Error()
	}
	if o.Tree != nil {
		g := o.Tree.Export()
		r.Graph = &g
	}
	if o.Result != nil {
		r.Artifacts = o.Result.Artifacts
	}
	for _, a := range o.Attachments {
		r.Attachments = append(r.Attachments, Attachment{
			Artifact: a.Artifact.String(),
			Kind:     a.Kind,
			Found:    a.Found(),
			Path:     a.Path,
		})
	}
	return r
}

// Sink stores reports.
type Sink interface {
	Write(ctx context.Context, r *Report) error
	Close(ctx context.Context) error
}

// Multi fans reports out to every sink. Write and Close attempt all sinks
// and join their errors.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Write(ctx context.Context, r *Report) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Write(ctx, r))
	}
	return errors.Join(errs...)
}

func (m multiSink) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close(ctx))
	}
	return errors.Join(errs...)
}

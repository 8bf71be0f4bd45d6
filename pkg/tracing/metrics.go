package tracing

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	KeyOperation = tag.MustNewKey("operation")
	KeyOutcome   = tag.MustNewKey("outcome")
)

var (
	MMutations     = stats.Int64("emailbuilder/tree_mutations", "Block tree mutations applied by editor sessions", stats.UnitDimensionless)
	MRenderLatency = stats.Float64("emailbuilder/render_latency", "Time spent compiling a block tree to HTML", stats.UnitMilliseconds)
	MEmailsSent    = stats.Int64("emailbuilder/emails_sent", "Emails handed to the mail provider", stats.UnitDimensionless)
)

var (
	MutationCountView = &view.View{
		Name:        "emailbuilder/tree_mutations_count",
		Measure:     MMutations,
		Description: "Count of block tree mutations by operation and outcome",
		TagKeys:     []tag.Key{KeyOperation, KeyOutcome},
		Aggregation: view.Count(),
	}
	RenderLatencyView = &view.View{
		Name:        "emailbuilder/render_latency",
		Measure:     MRenderLatency,
		Description: "Distribution of render latency",
		Aggregation: view.Distribution(1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000),
	}
	EmailsSentView = &view.View{
		Name:        "emailbuilder/emails_sent_count",
		Measure:     MEmailsSent,
		Description: "Count of sent emails by outcome",
		TagKeys:     []tag.Key{KeyOutcome},
		Aggregation: view.Count(),
	}
)

// RegisterViews registers the editor views with the default exporters
func RegisterViews() error {
	return view.Register(MutationCountView, RenderLatencyView, EmailsSentView)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordMutation(ctx context.Context, operation string, err error) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOperation, operation), tag.Upsert(KeyOutcome, outcome(err))},
		MMutations.M(1),
	)
}

func RecordRender(ctx context.Context, elapsed time.Duration) {
	stats.Record(ctx, MRenderLatency.M(float64(elapsed)/float64(time.Millisecond)))
}

func RecordSend(ctx context.Context, err error) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOutcome, outcome(err))},
		MEmailsSent.M(1),
	)
}

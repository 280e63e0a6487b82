package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Time-series collections fed by the metric ingestion tools. Each document
// carries a "timestamp" field and a "metadata" sub-document identifying the
// project/feature (and contributor or source where relevant).
//
//	traffic:      number of hits
//	latency:      response time in milliseconds
//	availability: is the feature reachable
//	commit:       number of modified lines of code
//	exception:    number of errors raised in logs
var timeseriesCollections = []string{
	"traffic",
	"latency",
	"availability",
	"commit",
	"exception",
}

// EnsureSchema creates the native time-series collections if they do not
// exist yet. Regular collections are created lazily by the driver; the
// time-series ones need explicit options at creation time.
func EnsureSchema(ctx context.Context) error {
	names, err := DB.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}

	for _, name := range timeseriesCollections {
		if existing[name] {
			continue
		}
		opts := options.CreateCollection().SetTimeSeriesOptions(
			options.TimeSeries().SetTimeField("timestamp").SetMetaField("metadata"),
		)
		if err := DB.CreateCollection(ctx, name, opts); err != nil {
			return err
		}
	}
	return nil
}

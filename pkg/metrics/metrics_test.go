package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then all metrics register without panicking", func() {
				So(manager, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// The vec metrics only appear once a label child exists.
				So(families, ShouldHaveLength, 6)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("custom"),
				WithSubsystem("sync"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the namespace prefixes the metric names", func() {
				So(manager, ShouldNotBeNil)
				manager.fetchLatency.Observe(5)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				So(families[0].GetName(), ShouldStartWith, "custom_sync_")
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording through the package helpers", func() {
			RecordAPIRequest("plays", "200")
			RecordAPIRetry()
			RecordAPIError()
			ObserveFetchLatency(12)
			RecordRowsUpserted("plays", 100)
			RecordRowsDeleted("collectionitems", 2)
			RecordPlays(7)
			ObserveSnapshotLatency(3)
			RecordReportWritten("hindex")
			ObserveReportDuration(40)

			Convey("Then the custom registry gathers them all", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["bggstats_pipeline_api_requests_total"], ShouldBeTrue)
				So(names["bggstats_pipeline_rows_upserted_total"], ShouldBeTrue)
				So(names["bggstats_pipeline_plays_recorded_total"], ShouldBeTrue)
				So(names["bggstats_pipeline_reports_written_total"], ShouldBeTrue)
				So(names["bggstats_pipeline_report_duration_milliseconds"], ShouldBeTrue)
			})
		})
	})
}

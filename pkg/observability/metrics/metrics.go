package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	estimationsCompleted atomic.Int64
	estimationsRejected  atomic.Int64
	estimationsFailed    atomic.Int64
	preSteadyStateCount  atomic.Int64
	cacheHits            atomic.Int64
)

func Init() {}

func IncEstimationCompleted(beforeSteadyState bool) {
	estimationsCompleted.Add(1)
	if beforeSteadyState {
		preSteadyStateCount.Add(1)
	}
}

func IncEstimationRejected() {
	estimationsRejected.Add(1)
}

func IncEstimationFailed() {
	estimationsFailed.Add(1)
}

func IncCacheHit() {
	cacheHits.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP vcz_estimations_completed_total Number of estimations completed since process start.\n")
	fmt.Fprintf(w, "# TYPE vcz_estimations_completed_total counter\n")
	fmt.Fprintf(w, "vcz_estimations_completed_total %d\n", estimationsCompleted.Load())

	fmt.Fprintf(w, "# HELP vcz_estimations_rejected_total Number of requests rejected by covariate validation.\n")
	fmt.Fprintf(w, "# TYPE vcz_estimations_rejected_total counter\n")
	fmt.Fprintf(w, "vcz_estimations_rejected_total %d\n", estimationsRejected.Load())

	fmt.Fprintf(w, "# HELP vcz_estimations_failed_total Number of estimations aborted by a pipeline error.\n")
	fmt.Fprintf(w, "# TYPE vcz_estimations_failed_total counter\n")
	fmt.Fprintf(w, "vcz_estimations_failed_total %d\n", estimationsFailed.Load())

	fmt.Fprintf(w, "# HELP vcz_estimations_before_steady_state_total Number of completed estimations sampled before steady state.\n")
	fmt.Fprintf(w, "# TYPE vcz_estimations_before_steady_state_total counter\n")
	fmt.Fprintf(w, "vcz_estimations_before_steady_state_total %d\n", preSteadyStateCount.Load())

	fmt.Fprintf(w, "# HELP vcz_result_cache_hits_total Number of estimations served from the result cache.\n")
	fmt.Fprintf(w, "# TYPE vcz_result_cache_hits_total counter\n")
	fmt.Fprintf(w, "vcz_result_cache_hits_total %d\n", cacheHits.Load())
}

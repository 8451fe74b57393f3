package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Gameplay metric names
const (
	MetricNameSynthesisAttempts = "synthesis_attempts_total"
	MetricNamePityActivations   = "synthesis_pity_activations_total"
	MetricNameSynthesisRate     = "synthesis_success_rate"
	MetricNameHuntsResolved     = "hunts_resolved_total"
	MetricNamePetDeaths         = "pet_deaths_total"
	MetricNamePlaysCompleted    = "plays_completed_total"
	MetricNameFragmentsDropped  = "fragments_dropped_total"
	MetricNamePetsSummoned      = "pets_summoned_total"
	MetricNameSavesWritten      = "saves_written_total"
	MetricNameHuntRewards       = "hunt_reward_coins"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Gameplay metric help text
const (
	HelpTextSynthesisAttempts = "Total synthesis attempts by recipe and outcome"
	HelpTextPityActivations   = "Total synthesis attempts resolved with pity active"
	HelpTextSynthesisRate     = "Success rate of the most recent synthesis attempt per recipe"
	HelpTextHuntsResolved     = "Total resolved hunts by outcome"
	HelpTextPetDeaths         = "Total pet deaths by pet type"
	HelpTextPlaysCompleted    = "Total completed play sessions by pet type"
	HelpTextFragmentsDropped  = "Total fragment drops by source and type"
	HelpTextPetsSummoned      = "Total pets summoned by type"
	HelpTextSavesWritten      = "Total snapshots written"
	HelpTextHuntRewards       = "Coins awarded per victorious hunt"
)

// Label names
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelRecipe   = "recipe"
	LabelOutcome  = "outcome"
	LabelPetType  = "pet_type"
	LabelSource   = "source"
	LabelFragment = "fragment_type"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeVictory = "victory"
	OutcomeDeath   = "death"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request
// duration in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// HuntRewardBuckets covers the 50..100 base range plus boosted rewards.
var HuntRewardBuckets = []float64{50, 60, 70, 80, 90, 100, 120, 150, 200}

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Gameplay Metrics
var (
	SynthesisAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSynthesisAttempts,
			Help: HelpTextSynthesisAttempts,
		},
		[]string{LabelRecipe, LabelOutcome},
	)

	PityActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePityActivations,
			Help: HelpTextPityActivations,
		},
		[]string{LabelRecipe},
	)

	SynthesisRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameSynthesisRate,
			Help: HelpTextSynthesisRate,
		},
		[]string{LabelRecipe},
	)

	HuntsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHuntsResolved,
			Help: HelpTextHuntsResolved,
		},
		[]string{LabelPetType, LabelOutcome},
	)

	HuntRewards = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameHuntRewards,
			Help:    HelpTextHuntRewards,
			Buckets: HuntRewardBuckets,
		},
	)

	PetDeaths = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePetDeaths,
			Help: HelpTextPetDeaths,
		},
		[]string{LabelPetType},
	)

	PlaysCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePlaysCompleted,
			Help: HelpTextPlaysCompleted,
		},
		[]string{LabelPetType},
	)

	FragmentsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFragmentsDropped,
			Help: HelpTextFragmentsDropped,
		},
		[]string{LabelSource, LabelFragment},
	)

	PetsSummoned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePetsSummoned,
			Help: HelpTextPetsSummoned,
		},
		[]string{LabelPetType},
	)

	SavesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSavesWritten,
			Help: HelpTextSavesWritten,
		},
	)
)

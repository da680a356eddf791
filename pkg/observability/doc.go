/*
Package observability provides tools for monitoring the validation engines.

It turns the engines' lifecycle hooks into Prometheus metrics and structured
audit logs. Both are plain domain.LifecycleHooks and can be chained:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := domain.ChainHooks(metrics.Hooks(), observability.LogHooks(logger))
*/
package observability

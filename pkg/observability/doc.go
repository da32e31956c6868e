/*
Package observability turns layout lifecycle hooks into Prometheus metrics and
structured log records.

Hooks from several sources can be combined into one domain.LifecycleHooks with
Combine and installed with layout.WithLifecycleHooks.
*/
package observability

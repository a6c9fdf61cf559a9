/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Hooks from several sources can be combined with Merge and passed to the engine
as a single domain.LifecycleHooks value.
*/
package observability

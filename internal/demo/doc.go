// Package demo provides the capabilities that run without network access:
// echo helpers, city lookups backed by the static city index, and the
// prompt texts.
//
// Tools that build on other capabilities (city_insights, default_city and
// prompt_runner) go back through the registry, so they see the same argument
// binding and error classification as an external caller would.
package demo

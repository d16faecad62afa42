// Package api holds the types shared between the cmdbmcp packages.
//
// It sits at the bottom of the import graph and depends on nothing else in
// the repository, so the registry, the upstream client, the content loaders
// and the MCP binding can all agree on the same vocabulary:
//
//   - Kind: tool, resource or prompt
//   - ArgMetadata: one declared argument of a capability
//   - PromptResult / PromptMessage: the output of prompt capabilities
//
// # Error Taxonomy
//
// Every failed invocation surfaces one of these error types:
//
//   - ConfigurationError: a required setting (the CMDB session cookie) is missing
//   - ValidationError: arguments failed schema binding
//   - UpstreamHTTPError: the CMDB API answered with a non-2xx status
//   - UpstreamTransportError: the CMDB API could not be reached
//   - NotFoundError: a static-content lookup missed
//
// KindOf classifies any (possibly wrapped) error into an ErrorKind so that the
// protocol layer can report "kind: message" to the caller.
//
//	if api.IsNotFound(err) {
//	    // e.g. unknown city
//	}
package api

// Package upstream is the HTTP client for the CMDB/Zeus REST API.
//
// Every request carries "Accept: application/json" and the session cookie,
// POSTs additionally send "Content-Type: application/json". Responses are
// decoded with json.Number so the untouched payload can be handed back to
// callers as-is. Failures are reported as *api.UpstreamHTTPError (the server
// answered) or *api.UpstreamTransportError (it could not be reached).
// There are no retries.
package upstream

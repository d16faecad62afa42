// Package capability is the registry and dispatcher for tools, resources and
// prompts.
//
// Capabilities are declared explicitly with Register during startup, each as
// a Descriptor carrying its argument metadata and a Handler. BuildSchema turns
// the metadata into the JSON Schema that is both advertised to clients and
// used to validate bound arguments.
//
// Every Dispatch creates an Invocation with a fresh ID, a Notifier that is
// never nil and, for remote capabilities, the session cookie read once from
// the TokenSource. Missing cookies and invalid arguments fail before the
// handler runs.
package capability

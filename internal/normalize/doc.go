// Package normalize reshapes raw CMDB/Zeus JSON payloads into stable result
// types.
//
// Only the wrapper is normalized: list items are passed through with the
// upstream field names untouched. Every result keeps the untouched payload
// in Raw (or Result for creates). Missing or mistyped keys yield empty lists,
// never errors. All functions are pure.
package normalize

// Package content serves the static content exposed without network access:
// the city index behind the cities:// resources and the prompt texts.
//
// Content is loaded once at startup. Changing it requires a restart.
package content

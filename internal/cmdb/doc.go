// Package cmdb registers the capabilities backed by the CMDB/Zeus REST API:
// the product line and user directory resources and the domain list and
// domain create tools.
package cmdb

// Package server exposes a page's content over HTTP.
//
// Read routes are public. Write routes go through an Authorizer, the
// HTTP counterpart of the edit capability: requests it rejects never
// reach the edit controller.
package server

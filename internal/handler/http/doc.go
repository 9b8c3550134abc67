// Package http implements the reference remote store endpoint.
//
// It exposes the single-endpoint action protocol spoken by the sync client:
// every action arrives as a POST with a JSON body carrying an "action" field,
// and a bare GET acts as a metadata probe. Access logging and panic recovery
// are handled here before requests reach the document store.
package http

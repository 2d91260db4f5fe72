// Package page composes editable elements into a page and wires them to
// the content stores.
//
// A page is described by a Manifest (YAML or CUE) listing sections and
// their elements. Every element carries a stable id, so edits survive
// reloads. New builds one Element per manifest entry and registers it in
// the text or image Registry; nothing ever searches for elements by
// attribute.
//
// Activate loads both namespaces and hydrates the registries exactly once
// per Page, then opens the edit gate. Until then the page's Controller
// refuses to start sessions, so an operator can never edit a default value
// that is about to be replaced.
package page

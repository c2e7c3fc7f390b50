// Package progress carries transfer progress from git network operations to
// whatever renders it.
//
// The engine only knows the [Reporter] interface. Renderers that serve many
// concurrent workers implement [Sink] and receive [Sample] values tagged with
// the repository they belong to (see [Tagged]).
//
// Git servers report progress as sideband text such as
//
//	Counting objects:  45% (45/100)
//
// [NewWriter] turns that text into Reporter calls.
package progress

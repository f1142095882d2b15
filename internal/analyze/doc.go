// Package analyze is the front end of the generator.
//
// It loads packages with golang.org/x/tools/go/packages and turns them into
// generation requests:
//   - Loader: loads packages (optionally with their tests) into a Program
//   - Resolver: resolves textual target types such as "example.com/calc.Memory[int]"
//   - Discover: finds instantiations of generator functions and reports their
//     type arguments as candidates, sorted by position
//
// Generator functions are the configured markers (standin.Of, Of2, Of3 by
// default) plus every function declared with a //standin:generator directive.
package analyze

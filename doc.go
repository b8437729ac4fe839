// Package worm provides a uniform fluent API over four language backends
// (native Go, Python, C++, Go-via-toolchain) plus an in-memory byte
// container used to embed resource files into a packaged executable.
//
// # Overview
//
// A Registry owns named sessions, a shared container store, and one facade
// per language. Every facade exposes the same contract: call a function,
// execute a snippet, and (for the compiled backends) load a library. When
// an external toolchain is missing the facades degrade gracefully: the
// result is computed natively and returned with Degraded set, never by
// crashing the caller.
//
// # Basic Usage
//
//	reg := session.NewRegistry(cfg)
//	defer reg.Shutdown()
//
//	s, _ := reg.CreateSession("demo")
//	res := s.Python().Call(ctx, "sqrt", 16)
//	fmt.Println(res.Value, res.Degraded)
//
//	// Shared container store
//	reg.Container().WriteText("data/hello.txt", "hi", "utf-8")
//	reg.Container().Save("")
//
// # Container archives
//
// The container persists to a single archive file in one of two formats:
// a standard zip (one compressed entry per path) or a gzip-compressed JSON
// document mapping path to base64 content. Loading sniffs the magic bytes,
// so either format is always readable.
//
// See the [container], [session], and [adapter] packages for detailed API
// documentation.
package worm

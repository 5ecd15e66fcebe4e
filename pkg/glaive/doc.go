// Package glaive is the core of an embedded HTTP server: a per-request
// dispatch engine running a deterministic pipeline of matching, handler
// execution, error recovery, response finalization, and logging.
//
// One Dispatch call executes, in order: before-handlers, the first
// matching endpoint handler (or fallback resolvers, or a routing
// failure), status handlers, after-handlers, and finalization. Failures
// in any phase are caught by the fault boundary and turned into status
// and body mutations on the request's Context; they never escape the
// dispatcher. A handler may install a Future instead of an immediate
// result, in which case the exchange is suspended and the tail of the
// pipeline replays when the future resolves.
//
// The App type wraps the dispatcher with route registration and server
// lifecycle:
//
//	app := glaive.New(glaive.WithDynamicGzip(true))
//	app.Get("/hello/{name}", func(c *glaive.Context) error {
//		c.ResultString("hello " + c.PathParam("name"))
//		return nil
//	})
//	app.Start(":8080")
package glaive

package glaive

// statusHandlers holds post-hoc handlers keyed by status code. They run
// after routing is resolved and before the after phase, on both the
// synchronous and the asynchronous completion path, allowing error
// bodies to be customized per status.
type statusHandlers struct {
	byCode map[int][]Handler
}

func newStatusHandlers() *statusHandlers {
	return &statusHandlers{byCode: make(map[int][]Handler)}
}

func (s *statusHandlers) add(code int, h Handler) {
	s.byCode[code] = append(s.byCode[code], h)
}

// dispatch runs every handler bound to the context's current status code
// under the fault boundary. The whole phase shares one guard: the first
// failing handler aborts the remaining ones.
func (s *statusHandlers) dispatch(c *Context, faults *faultBoundary) {
	handlers := s.byCode[c.StatusCode()]
	if len(handlers) == 0 {
		return
	}
	faults.guard(c, func() error {
		for _, h := range handlers {
			if err := h(c); err != nil {
				return err
			}
		}
		return nil
	})
}

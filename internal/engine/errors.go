package engine

// unavailableError signals the absent model handle.
type unavailableError struct{}

func (unavailableError) Error() string { return "model unavailable: startup load failed" }

// IsUnavailable reports whether err indicates the absent model handle.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// emptyResultError signals a model that produced no predictions.
type emptyResultError struct{}

func (emptyResultError) Error() string { return "model returned no predictions" }

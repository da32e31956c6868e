package host

// Renderer produces output from props.
type Renderer interface {
	Render(props any) any
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(props any) any

// Render implements Renderer.
func (f RenderFunc) Render(props any) any {
	return f(props)
}

// Render invokes r with props when r is a Renderer or a render function and
// returns r unchanged otherwise, so plain values render as themselves.
func Render(r any, props any) any {
	switch v := r.(type) {
	case Renderer:
		return v.Render(props)
	case func(props any) any:
		return v(props)
	default:
		return r
	}
}

// RenderOr is Render with a fallback for a nil r, typically the layout's
// RenderFallbackValue.
func RenderOr(r any, props any, fallback any) any {
	if r == nil {
		return fallback
	}
	return Render(r, props)
}

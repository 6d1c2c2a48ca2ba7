package hostfuncs

import "context"

type callbackNameKey struct{}

// WithCallbackName annotates ctx with the callback being invoked.
func WithCallbackName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, callbackNameKey{}, name)
}

// CallbackName returns the callback name set by the Registry, if any.
func CallbackName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(callbackNameKey{}).(string)
	return name, ok
}

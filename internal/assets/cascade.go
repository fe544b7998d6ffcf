package assets

import "context"

// Step is one candidate of a resolution cascade. Construct produces the
// candidate url (false when the step does not apply), Validate decides
// whether it is usable. A nil Validate accepts any constructed url.
type Step struct {
	Name      string
	Construct func(ctx context.Context) (string, bool)
	Validate  func(ctx context.Context, url string) bool
}

// Cascade evaluates steps in order and stops at the first validated url,
// later steps are never constructed.
func Cascade(ctx context.Context, steps []Step) (url string, step string, ok bool) {
	for _, s := range steps {
		if ctx.Err() != nil {
			return "", "", false
		}
		candidate, ok := s.Construct(ctx)
		if !ok || candidate == "" {
			continue
		}
		if s.Validate != nil && !s.Validate(ctx, candidate) {
			continue
		}
		return candidate, s.Name, true
	}
	return "", "", false
}

// Constant returns a Construct func that always yields url.
func Constant(url string) func(ctx context.Context) (string, bool) {
	return func(context.Context) (string, bool) {
		return url, true
	}
}

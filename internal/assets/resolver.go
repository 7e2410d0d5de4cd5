package assets

import "errors"

// AssetResolver looks assets up in a custom directory first and falls back
// to the embedded set when the directory lacks them.
type AssetResolver struct {
	chain []Loader // custom loader first when configured, embedded last
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only; an unusable one is an error.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	var chain []Loader
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		chain = append(chain, fsLoader)
	}
	return &AssetResolver{chain: append(chain, NewEmbeddedLoader())}, nil
}

// LoadRules returns the first rule set named name along the chain.
func (r *AssetResolver) LoadRules(name string) (string, error) {
	return r.first(func(l Loader) (string, error) { return l.LoadRules(name) })
}

// LoadShell returns the first HTML shell named name along the chain.
func (r *AssetResolver) LoadShell(name string) (string, error) {
	return r.first(func(l Loader) (string, error) { return l.LoadShell(name) })
}

// first walks the chain. Only a not-found result moves on to the next
// loader; validation and read errors stop the walk.
func (r *AssetResolver) first(load func(Loader) (string, error)) (string, error) {
	var err error
	for _, l := range r.chain {
		var content string
		content, err = load(l)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrRulesNotFound) && !errors.Is(err, ErrShellNotFound) {
			return "", err
		}
	}
	return "", err
}

// HasCustomLoader reports whether a custom directory takes part in lookups.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.chain) > 1
}

var _ Loader = (*AssetResolver)(nil)

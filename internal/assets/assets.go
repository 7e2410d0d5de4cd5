package assets

// DefaultRulesName is the name of the built-in rule set.
const DefaultRulesName = "default"

// BlankShellName is the name of the empty starting document.
const BlankShellName = "blank"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadRules loads a rule set by name using the default embedded loader.
// Returns ErrRulesNotFound if the rule set does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadRules(name string) (string, error) {
	return defaultLoader.LoadRules(name)
}

// LoadShell loads an HTML shell by name using the default embedded loader.
// Returns ErrShellNotFound if the shell does not exist.
func LoadShell(name string) (string, error) {
	return defaultLoader.LoadShell(name)
}

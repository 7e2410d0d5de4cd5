package assets

// Loader defines the contract for loading prompt rule sets and HTML shells.
type Loader interface {
	// LoadRules loads a rule set by name (without .txt extension).
	// Returns ErrRulesNotFound if the rule set doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadRules(name string) (string, error)

	// LoadShell loads an HTML shell by name (without .html extension).
	// Returns ErrShellNotFound if the shell doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadShell(name string) (string, error)
}

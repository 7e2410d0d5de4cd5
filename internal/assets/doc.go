// Package assets provides the prompt rule sets and HTML shells used by the
// editing pipeline.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to the
// EmbeddedLoader when the asset is not found, so a directory only needs to
// contain the assets it overrides.
//
// # Directory Structure
//
//	{basePath}/
//	├── rules/
//	│   └── {name}.txt    # Fixed instructions prepended to every prompt
//	└── shells/
//	    └── {name}.html   # Starting documents for runs without a source
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrRulesNotFound indicates the requested rule set does not exist.
	ErrRulesNotFound = errors.New("rule set not found")

	// ErrShellNotFound indicates the requested HTML shell does not exist.
	ErrShellNotFound = errors.New("shell not found")

	// ErrEmptyAsset indicates the asset exists but has no content.
	ErrEmptyAsset = errors.New("asset is empty")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)

package quiztree

import _ "embed"

// Version is the release of the library and the quiztree binary.
//
//go:embed VERSION
var Version string

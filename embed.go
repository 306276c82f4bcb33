package monthversary

import "embed"

// StaticAssets contains the browser-resident components shipped with the
// binary: the editing console, the presentation engine, and their pages.
//
//go:embed static
var StaticAssets embed.FS
